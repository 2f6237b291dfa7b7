// Command p2r downloads a paper or web article as a styled PDF.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/delaere/paper2remarkable/internal/app"
)

func main() {
	var (
		cfg        app.Config
		configPath string
	)

	root := &cobra.Command{
		Use:   "p2r [flags] URL",
		Short: "Download a paper or web article as a clean PDF",
		Long: `p2r fetches a URL, picks the provider that understands it (arXiv,
direct PDF link, or generic HTML article), and writes a styled PDF. For HTML
articles the readable content is extracted, sanitized through a markdown
round trip, and typeset with a fixed stylesheet.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Logging setup
			zerolog.TimeFieldFormat = time.RFC3339
			log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
				With().Timestamp().Logger()
			if cfg.Verbose {
				log = log.Level(zerolog.DebugLevel)
			} else {
				log = log.Level(zerolog.InfoLevel)
			}

			if configPath != "" {
				fc, err := app.LoadConfigFile(configPath)
				if err != nil {
					return fmt.Errorf("load config %s: %w", configPath, err)
				}
				app.ApplyFileConfig(&cfg, fc)
			}
			cfg.URL = args[0]

			outPath, err := app.New(cfg, log).Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(outPath)
			return nil
		},
		SilenceUsage: true,
	}

	root.Flags().StringVarP(&cfg.OutputPath, "output", "o", "", "exact output file (default: derived from the title)")
	root.Flags().StringVar(&cfg.OutputDir, "dir", "", "directory for derived filenames (default: current directory)")
	root.Flags().StringVar(&cfg.UserAgent, "user-agent", "", "HTTP User-Agent header")
	root.Flags().IntVar(&cfg.MaxAttempts, "attempts", 0, "HTTP attempts per request, including the first (default 3)")
	root.Flags().DurationVar(&cfg.Timeout, "timeout", 0, "per-request HTTP timeout (default 30s)")
	root.Flags().BoolVar(&cfg.Debug, "debug", false, "also write the intermediate HTML to ./paper.html")
	root.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "verbose logging")
	root.Flags().StringVar(&configPath, "config", "", "path to a YAML or JSON config file")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
