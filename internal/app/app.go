// Package app wires the providers together and runs a single download:
// select a provider for the URL, derive the output filename when the caller
// did not name one, and hand off to the provider's retrieval pipeline.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/delaere/paper2remarkable/internal/fetch"
	"github.com/delaere/paper2remarkable/internal/provider"
)

const (
	defaultAttempts = 3
	defaultTimeout  = 30 * time.Second
)

// App holds the assembled components for a run.
type App struct {
	cfg Config
	log zerolog.Logger
	reg *provider.Registry
}

// New assembles the fetch client and the provider registry. Pattern-matching
// providers come before the content-type probes, and the generic HTML
// provider is the catch-all.
func New(cfg Config, log zerolog.Logger) *App {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultAttempts
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	client := &fetch.Client{
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       cfg.MaxAttempts,
		PerRequestTimeout: cfg.Timeout,
	}

	htmlProv := provider.NewHTML(client, log)
	htmlProv.Debug = cfg.Debug

	reg := provider.NewRegistry(log,
		provider.NewArxiv(client, log),
		provider.NewPDFURL(client, log),
		htmlProv,
	)
	return &App{cfg: cfg, log: log, reg: reg}
}

// Run downloads cfg.URL into a PDF and returns the path it wrote.
func (a *App) Run(ctx context.Context) (string, error) {
	p, err := a.reg.Match(ctx, a.cfg.URL)
	if err != nil {
		return "", err
	}
	a.log.Info().Str("provider", p.Name()).Str("url", a.cfg.URL).Msg("provider selected")

	outPath := a.cfg.OutputPath
	if outPath == "" {
		name, err := p.Filename(ctx, a.cfg.URL)
		if err != nil {
			return "", fmt.Errorf("derive filename: %w", err)
		}
		outPath = filepath.Join(a.cfg.OutputDir, name)
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
	}

	if err := p.Retrieve(ctx, a.cfg.URL, outPath); err != nil {
		return "", err
	}
	return outPath, nil
}
