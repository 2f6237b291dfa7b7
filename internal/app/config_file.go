package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the optional single-file configuration schema. Nested
// sections map naturally onto flags.
type FileConfig struct {
	Output struct {
		Dir  string `yaml:"dir" json:"dir"`
		Path string `yaml:"path" json:"path"`
	} `yaml:"output" json:"output"`

	HTTP struct {
		UserAgent string        `yaml:"userAgent" json:"userAgent"`
		Attempts  int           `yaml:"attempts" json:"attempts"`
		Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	} `yaml:"http" json:"http"`

	Debug   bool `yaml:"debug" json:"debug"`
	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays file values into cfg for fields still at their
// zero value, so explicit flags keep precedence over the config file.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.OutputDir == "" && fc.Output.Dir != "" {
		cfg.OutputDir = fc.Output.Dir
	}
	if cfg.OutputPath == "" && fc.Output.Path != "" {
		cfg.OutputPath = fc.Output.Path
	}
	if cfg.UserAgent == "" && fc.HTTP.UserAgent != "" {
		cfg.UserAgent = fc.HTTP.UserAgent
	}
	if cfg.MaxAttempts == 0 && fc.HTTP.Attempts != 0 {
		cfg.MaxAttempts = fc.HTTP.Attempts
	}
	if cfg.Timeout == 0 && fc.HTTP.Timeout != 0 {
		cfg.Timeout = fc.HTTP.Timeout
	}
	if !cfg.Debug && fc.Debug {
		cfg.Debug = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}
