package model

import "encoding/json"

// AnalysisSource identifies which analyzer variant produced a result.
type AnalysisSource string

const (
	AnalysisSourceSonar AnalysisSource = "sonar"
	AnalysisSourceLint  AnalysisSource = "lint"
)

// AnalysisResult is an opaque payload produced by an analyzer.
// Exactly one of Metrics or Text is filled depending on the variant:
// the remote-metrics variant fills Metrics, the local-lint variant
// fills Text with the verbatim tool output.
type AnalysisResult struct {
	Source  AnalysisSource     `json:"source"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
	Text    string             `json:"text,omitempty"`

	// Raw is the verbatim upstream response of the remote-metrics variant,
	// kept so the report ships everything the service returned, including
	// non-numeric measures that are absent from Metrics.
	Raw json.RawMessage `json:"raw,omitempty"`
}

// Report is the structured report sent to the report webhook.
// It is constructed once per tick and discarded after delivery.
type Report struct {
	Commits  []string       `json:"commits"`
	Analysis AnalysisResult `json:"analysis"`
	Summary  string         `json:"summary"`
}

// OutboundMessage is the payload posted to the caller-supplied return URL.
type OutboundMessage struct {
	Message   string `json:"message"`
	Username  string `json:"username"`
	EventName string `json:"event_name"`
	Status    string `json:"status"`
}
