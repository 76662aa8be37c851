// Package report formats commit records and an analysis result into the
// structured report and the human-readable message. Everything here is pure.
package report

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/maxbolgarin/gitpulse/internal/model"
)

const (
	summaryText      = "Periodic report with key insights from recent commits and code analysis"
	messageHeader    = "🚀 Recent Code Changes:"
	analysisHeader   = "🔍 Code Analysis:"
	commitLineFormat = "- [%s] %s by %s"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CommitLines renders one line per commit in upstream order.
func CommitLines(commits []model.CommitRecord) []string {
	lines := make([]string, 0, len(commits))
	for _, c := range commits {
		lines = append(lines, fmt.Sprintf(commitLineFormat, c.ShortSHA(), c.Message, c.Author))
	}
	return lines
}

// Build combines commit records and an analysis result into the structured
// report sent to the report webhook.
func Build(commits []model.CommitRecord, analysis model.AnalysisResult) model.Report {
	return model.Report{
		Commits:  CommitLines(commits),
		Analysis: analysis,
		Summary:  summaryText,
	}
}

// Message renders the report as a single formatted string: a header, the
// commit lines and a labeled analysis section.
func Message(r model.Report) string {
	var b strings.Builder
	b.WriteString(messageHeader)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(r.Commits, "\n"))
	b.WriteString("\n\n")
	b.WriteString(analysisHeader)
	b.WriteString("\n")
	b.WriteString(renderAnalysis(r.Analysis))
	return b.String()
}

// renderAnalysis keeps linter output verbatim and renders a metrics map as
// indented JSON.
func renderAnalysis(a model.AnalysisResult) string {
	if a.Text != "" {
		return a.Text
	}
	raw, err := json.MarshalIndent(a.Metrics, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", a.Metrics)
	}
	return string(raw)
}
