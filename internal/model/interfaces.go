package model

import "context"

// CommitSource lists recent commits of the monitored repository.
type CommitSource interface {
	ListRecentCommits(ctx context.Context, count int) ([]CommitRecord, error)
}

// Analyzer produces an analysis payload for the monitored repository.
// Implementations are interchangeable strategies: a remote quality-metrics
// API or a local linter subprocess.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context) (AnalysisResult, error)
}

// Deliverer sends the finished report to its destinations.
type Deliverer interface {
	// LogReport posts the structured report to the fixed report webhook.
	// Best effort: failures are logged and swallowed.
	LogReport(ctx context.Context, report Report)

	// SendCallback posts the formatted message to the caller-supplied URL.
	SendCallback(ctx context.Context, url string, msg OutboundMessage) error
}

// TickHandler schedules one analysis cycle for a tick event.
type TickHandler interface {
	HandleTick(ctx context.Context, event TickEvent) error
}
