// Package config holds the whole process configuration. It is loaded once
// at startup and passed explicitly into each component constructor: nothing
// reads it from ambient global state afterwards.
package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/maxbolgarin/errm"

	"github.com/maxbolgarin/gitpulse/internal/analyzer"
	"github.com/maxbolgarin/gitpulse/internal/delivery"
	"github.com/maxbolgarin/gitpulse/internal/fetch"
	"github.com/maxbolgarin/gitpulse/internal/monitor"
	"github.com/maxbolgarin/gitpulse/internal/provider/github"
	"github.com/maxbolgarin/gitpulse/internal/server"
)

// Config represents the main application configuration.
type Config struct {
	Server   server.Config   `yaml:"server"`
	GitHub   github.Config   `yaml:"github"`
	Analyzer analyzer.Config `yaml:"analyzer"`
	Fetch    fetch.Config    `yaml:"fetch"`
	Delivery delivery.Config `yaml:"delivery"`
	Monitor  monitor.Config  `yaml:"monitor"`
}

// Load reads the configuration from an optional yaml file with environment
// variable overrides, or from the environment alone when no path is given.
func Load(path string) (Config, error) {
	var cfg Config

	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return cfg, errm.Wrap(err, "read config")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, errm.Wrap(err, "validate config")
	}

	return cfg, nil
}

// Validate checks the cross-component requirements. Per-component defaults
// and checks run in the constructors.
func (c *Config) Validate() error {
	if c.GitHub.Owner == "" || c.GitHub.Repo == "" {
		return ErrMissingRepository
	}
	if c.Analyzer.Type == analyzer.Lint {
		if c.Analyzer.Lint.RepoURL == "" {
			return ErrMissingLintRepoURL
		}
		if c.Analyzer.Lint.ClonePath == "" {
			return ErrMissingLintClonePath
		}
	}
	return nil
}
