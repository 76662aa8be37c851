// Package app wires configuration into the running service.
package app

import (
	"context"

	"github.com/maxbolgarin/contem"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"

	"github.com/maxbolgarin/gitpulse/internal/analyzer"
	"github.com/maxbolgarin/gitpulse/internal/config"
	"github.com/maxbolgarin/gitpulse/internal/delivery"
	"github.com/maxbolgarin/gitpulse/internal/fetch"
	"github.com/maxbolgarin/gitpulse/internal/model"
	"github.com/maxbolgarin/gitpulse/internal/monitor"
	"github.com/maxbolgarin/gitpulse/internal/provider/github"
	"github.com/maxbolgarin/gitpulse/internal/server"
)

// LoadConfig loads the application configuration from a file and/or env.
func LoadConfig(path string) (config.Config, error) {
	return config.Load(path)
}

// GitPulse is the main service that orchestrates all components.
type GitPulse struct {
	source   model.CommitSource
	analyzer model.Analyzer
	sink     model.Deliverer
	monitor  *monitor.Service
	server   *server.Server

	cfg config.Config
	log logze.Logger
}

// New creates a new monitoring bot service.
func New(ctx contem.Context, cfg config.Config) (*GitPulse, error) {
	service := &GitPulse{
		cfg: cfg,
		log: logze.With("component", "app"),
	}

	if err := service.init(ctx, cfg); err != nil {
		return nil, errm.Wrap(err, "failed to initialize service")
	}

	return service, nil
}

// StartWebhook starts the HTTP server answering tick events.
func (s *GitPulse) StartWebhook(ctx context.Context) error {
	if err := s.server.Start(ctx); err != nil {
		return errm.Wrap(err, "failed to start server")
	}
	return nil
}

// RunCycle runs one analysis cycle synchronously, for CLI use.
func (s *GitPulse) RunCycle(ctx context.Context, returnURL string) error {
	if err := s.monitor.RunOnce(ctx, returnURL); err != nil {
		return errm.Wrap(err, "failed to run cycle")
	}
	return nil
}

func (s *GitPulse) init(ctx contem.Context, cfg config.Config) (err error) {

	// Commit reader on a token-injecting retrying fetcher
	sourceFetcher, err := fetch.NewWithToken(ctx, cfg.Fetch, cfg.GitHub.Token)
	if err != nil {
		return errm.Wrap(err, "failed to create source fetcher")
	}
	s.source, err = github.New(cfg.GitHub, sourceFetcher)
	if err != nil {
		return errm.Wrap(err, "failed to create commit reader")
	}

	// Analysis strategy: remote metrics or local lint
	analyzerFetcher, err := fetch.New(cfg.Fetch)
	if err != nil {
		return errm.Wrap(err, "failed to create analyzer fetcher")
	}
	s.analyzer, err = analyzer.New(cfg.Analyzer, analyzerFetcher)
	if err != nil {
		return errm.Wrap(err, "failed to create analyzer")
	}

	// Delivery sinks
	s.sink, err = delivery.New(cfg.Delivery)
	if err != nil {
		return errm.Wrap(err, "failed to create delivery sink")
	}

	// Monitor service - this is the central orchestrator
	s.monitor, err = monitor.New(cfg.Monitor, s.source, s.analyzer, s.sink)
	if err != nil {
		return errm.Wrap(err, "failed to create monitor service")
	}
	ctx.Add(s.monitor.Stop)

	// HTTP boundary - just an event source
	s.server, err = server.New(cfg.Server, s.monitor)
	if err != nil {
		return errm.Wrap(err, "failed to create server")
	}
	ctx.Add(s.server.Stop)

	return nil
}
