package monitor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxbolgarin/gitpulse/internal/model"
)

type fakeSource struct {
	commits []model.CommitRecord
	err     error
}

func (f *fakeSource) ListRecentCommits(_ context.Context, count int) ([]model.CommitRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.commits) > count {
		return f.commits[:count], nil
	}
	return f.commits, nil
}

type fakeAnalyzer struct {
	result model.AnalysisResult
	err    error
}

func (f *fakeAnalyzer) Name() string { return "fake" }

func (f *fakeAnalyzer) Analyze(_ context.Context) (model.AnalysisResult, error) {
	return f.result, f.err
}

type fakeSink struct {
	mu          sync.Mutex
	reports     []model.Report
	callbacks   []model.OutboundMessage
	callbackURL string
	callbackErr error
	done        chan struct{}
}

func newFakeSink() *fakeSink {
	return &fakeSink{done: make(chan struct{}, 10)}
}

func (f *fakeSink) LogReport(_ context.Context, report model.Report) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, report)
}

func (f *fakeSink) SendCallback(_ context.Context, url string, msg model.OutboundMessage) error {
	f.mu.Lock()
	f.callbackURL = url
	f.callbacks = append(f.callbacks, msg)
	f.mu.Unlock()
	f.done <- struct{}{}
	return f.callbackErr
}

func (f *fakeSink) counts() (reports, callbacks int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reports), len(f.callbacks)
}

var testCommits = []model.CommitRecord{
	{SHA: "abc1234567890", Message: "fix retry loop", Author: "Alice", Date: "2025-02-22T10:00:00Z"},
	{SHA: "def4567890123", Message: "add linter config", Author: "Bob", Date: "2025-02-22T10:01:00Z"},
	{SHA: "0123456789abc", Message: "bump deps", Author: "Carol", Date: "2025-02-22T10:02:00Z"},
}

var testAnalysis = model.AnalysisResult{
	Source:  model.AnalysisSourceSonar,
	Metrics: map[string]float64{"bugs": 2, "code_smells": 5, "vulnerabilities": 0},
}

func newService(t *testing.T, source model.CommitSource, analyzer model.Analyzer, sink model.Deliverer) *Service {
	t.Helper()
	s, err := New(Config{CommitCount: 3, PoolSize: 4}, source, analyzer, sink)
	require.NoError(t, err)
	t.Cleanup(func() { s.Stop(context.Background()) })
	return s
}

func TestRunOnceDeliversReport(t *testing.T) {
	sink := newFakeSink()
	s := newService(t, &fakeSource{commits: testCommits}, &fakeAnalyzer{result: testAnalysis}, sink)

	err := s.RunOnce(context.Background(), "http://callback.example")
	require.NoError(t, err)

	reports, callbacks := sink.counts()
	assert.Equal(t, 1, reports)
	assert.Equal(t, 1, callbacks)

	require.Len(t, sink.reports[0].Commits, 3)
	assert.Equal(t, testAnalysis, sink.reports[0].Analysis)

	msg := sink.callbacks[0]
	assert.Equal(t, "http://callback.example", sink.callbackURL)
	assert.Equal(t, "success", msg.Status)
	assert.Contains(t, msg.Message, "- [abc1234] fix retry loop by Alice")
	assert.Contains(t, msg.Message, `"bugs": 2`)
	assert.NotEmpty(t, msg.Username)
	assert.NotEmpty(t, msg.EventName)
}

func TestCommitFailureSkipsAllDelivery(t *testing.T) {
	sink := newFakeSink()
	s := newService(t, &fakeSource{err: errors.New("GITHUB_TOKEN not set")}, &fakeAnalyzer{result: testAnalysis}, sink)

	err := s.RunOnce(context.Background(), "http://callback.example")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GITHUB_TOKEN not set")

	reports, callbacks := sink.counts()
	assert.Zero(t, reports)
	assert.Zero(t, callbacks)
}

func TestAnalysisFailureSkipsAllDelivery(t *testing.T) {
	sink := newFakeSink()
	s := newService(t, &fakeSource{commits: testCommits}, &fakeAnalyzer{err: errors.New("credentials not set")}, sink)

	err := s.RunOnce(context.Background(), "http://callback.example")
	require.Error(t, err)

	reports, callbacks := sink.counts()
	assert.Zero(t, reports)
	assert.Zero(t, callbacks)
}

func TestCallbackFailureAfterReportLogged(t *testing.T) {
	sink := newFakeSink()
	sink.callbackErr = errors.New("connection refused")
	s := newService(t, &fakeSource{commits: testCommits}, &fakeAnalyzer{result: testAnalysis}, sink)

	err := s.RunOnce(context.Background(), "http://callback.example")
	require.Error(t, err)

	// the report webhook already got its copy, the callback failure is
	// diagnostic only
	reports, _ := sink.counts()
	assert.Equal(t, 1, reports)
}

func TestHandleTickRunsInBackground(t *testing.T) {
	sink := newFakeSink()
	s := newService(t, &fakeSource{commits: testCommits}, &fakeAnalyzer{result: testAnalysis}, sink)

	err := s.HandleTick(context.Background(), model.TickEvent{
		ChannelID: "chan-1",
		ReturnURL: "http://callback.example",
	})
	require.NoError(t, err)

	select {
	case <-sink.done:
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline did not finish in time")
	}

	reports, callbacks := sink.counts()
	assert.Equal(t, 1, reports)
	assert.Equal(t, 1, callbacks)
}

func TestMessageContainsAllCommitLines(t *testing.T) {
	sink := newFakeSink()
	s := newService(t, &fakeSource{commits: testCommits}, &fakeAnalyzer{result: testAnalysis}, sink)

	require.NoError(t, s.RunOnce(context.Background(), "http://callback.example"))

	var commitLines int
	for _, line := range strings.Split(sink.callbacks[0].Message, "\n") {
		if strings.HasPrefix(line, "- [") {
			commitLines++
		}
	}
	assert.Equal(t, 3, commitLines)
}
