// Package delivery posts finished reports to the two sinks: the fixed
// report webhook (best effort) and the caller-supplied return URL.
package delivery

import (
	"context"

	"github.com/maxbolgarin/cliex"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"

	"github.com/maxbolgarin/gitpulse/internal/model"
)

var _ model.Deliverer = (*Sink)(nil)

// Config represents delivery sink configuration.
type Config struct {
	// ReportWebhookURL receives a structured copy of every report for
	// auditing. Empty disables the report sink.
	ReportWebhookURL string `yaml:"report_webhook_url" env:"REPORT_WEBHOOK_URL"`
}

// Sink implements both deliveries over one HTTP client.
type Sink struct {
	cli *cliex.HTTP
	cfg Config
	log logze.Logger
}

// New creates a new delivery sink.
func New(cfg Config) (*Sink, error) {
	log := logze.With("module", "delivery")

	cli, err := cliex.New(cliex.WithLogger(log))
	if err != nil {
		return nil, errm.Wrap(err, "failed to create HTTP client")
	}

	return &Sink{
		cli: cli,
		cfg: cfg,
		log: log,
	}, nil
}

// LogReport posts the structured report to the report webhook. Failures are
// logged and swallowed, never retried: this sink is best-effort telemetry.
func (s *Sink) LogReport(ctx context.Context, report model.Report) {
	if s.cfg.ReportWebhookURL == "" {
		s.log.Debug("report webhook is not configured, skipping")
		return
	}
	if _, err := s.cli.Post(ctx, s.cfg.ReportWebhookURL, report); err != nil {
		s.log.Err(err, "failed to log report to webhook")
		return
	}
	s.log.Info("successfully logged report to webhook")
}

// SendCallback posts the formatted message to the caller-supplied URL.
// The failure is returned to the background task, which has no external
// rendezvous point anymore, so it is diagnostic only.
func (s *Sink) SendCallback(ctx context.Context, url string, msg model.OutboundMessage) error {
	if _, err := s.cli.Post(ctx, url, msg); err != nil {
		return errm.Wrap(err, "failed to send message to return URL")
	}
	return nil
}
