package report_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxbolgarin/gitpulse/internal/model"
	"github.com/maxbolgarin/gitpulse/internal/report"
)

var testCommits = []model.CommitRecord{
	{SHA: "abc1234567890", Message: "fix retry loop", Author: "Alice", Date: "2025-02-22T10:00:00Z"},
	{SHA: "def4567890123", Message: "add linter config", Author: "Bob", Date: "2025-02-22T10:01:00Z"},
	{SHA: "0123456789abc", Message: "bump deps", Author: "Carol", Date: "2025-02-22T10:02:00Z"},
}

func TestCommitLines(t *testing.T) {
	lines := report.CommitLines(testCommits)
	require.Len(t, lines, 3)

	assert.Equal(t, "- [abc1234] fix retry loop by Alice", lines[0])
	assert.Equal(t, "- [def4567] add linter config by Bob", lines[1])
	assert.Equal(t, "- [0123456] bump deps by Carol", lines[2])
}

func TestCommitLinesShortSHA(t *testing.T) {
	lines := report.CommitLines([]model.CommitRecord{{SHA: "ab12", Message: "m", Author: "a"}})
	require.Len(t, lines, 1)
	assert.Equal(t, "- [ab12] m by a", lines[0])
}

func TestBuild(t *testing.T) {
	analysis := model.AnalysisResult{
		Source:  model.AnalysisSourceSonar,
		Metrics: map[string]float64{"bugs": 2, "code_smells": 5, "vulnerabilities": 0},
		Raw:     []byte(`{"component": {"measures": [{"metric": "quality_gate", "value": "OK"}]}}`),
	}

	r := report.Build(testCommits, analysis)
	assert.Len(t, r.Commits, 3)
	assert.Equal(t, analysis, r.Analysis)
	assert.Contains(t, string(r.Analysis.Raw), "quality_gate")
	assert.NotEmpty(t, r.Summary)
}

func TestMessageWithMetrics(t *testing.T) {
	r := report.Build(testCommits, model.AnalysisResult{
		Source:  model.AnalysisSourceSonar,
		Metrics: map[string]float64{"bugs": 2, "code_smells": 5, "vulnerabilities": 0},
	})

	msg := report.Message(r)
	assert.True(t, strings.HasPrefix(msg, "🚀 Recent Code Changes:"))
	assert.Contains(t, msg, "🔍 Code Analysis:")

	var commitLines int
	for _, line := range strings.Split(msg, "\n") {
		if strings.HasPrefix(line, "- [") {
			commitLines++
			assert.True(t,
				strings.HasSuffix(line, "Alice") || strings.HasSuffix(line, "Bob") || strings.HasSuffix(line, "Carol"),
				"commit line should end with the author name: %q", line)
		}
	}
	assert.Equal(t, 3, commitLines)

	// metrics rendered as JSON
	assert.Contains(t, msg, `"bugs": 2`)
	assert.Contains(t, msg, `"code_smells": 5`)
	assert.Contains(t, msg, `"vulnerabilities": 0`)
}

func TestMessageWithLintOutput(t *testing.T) {
	r := report.Build(testCommits, model.AnalysisResult{
		Source: model.AnalysisSourceLint,
		Text:   "main.go:10:2: unused variable\nmain.go:20:5: shadowed err",
	})

	msg := report.Message(r)
	assert.Contains(t, msg, "main.go:10:2: unused variable")
	assert.Contains(t, msg, "main.go:20:5: shadowed err")
}
