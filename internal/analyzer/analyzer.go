// Package analyzer selects the static-analysis strategy: a remote
// quality-metrics API or a local linter subprocess.
package analyzer

import (
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"

	"github.com/maxbolgarin/gitpulse/internal/analyzer/lint"
	"github.com/maxbolgarin/gitpulse/internal/analyzer/sonar"
	"github.com/maxbolgarin/gitpulse/internal/fetch"
	"github.com/maxbolgarin/gitpulse/internal/model"
)

// Type is the analyzer variant name.
type Type string

const (
	Sonar Type = "sonar"
	Lint  Type = "lint"
)

// Config represents analysis runner configuration.
type Config struct {
	Type  Type         `yaml:"type" env:"ANALYZER_TYPE"`
	Sonar sonar.Config `yaml:"sonar"`
	Lint  lint.Config  `yaml:"lint"`
}

// New creates the analyzer variant selected by cfg.Type.
func New(cfg Config, fetcher *fetch.Client) (model.Analyzer, error) {
	cfg.Type = lang.Check(cfg.Type, Sonar)

	switch cfg.Type {
	case Sonar:
		return sonar.New(cfg.Sonar, fetcher)
	case Lint:
		return lint.New(cfg.Lint)
	default:
		return nil, errm.Errorf("unsupported analyzer type: %s", cfg.Type)
	}
}
