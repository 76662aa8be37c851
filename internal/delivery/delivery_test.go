package delivery_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxbolgarin/gitpulse/internal/delivery"
	"github.com/maxbolgarin/gitpulse/internal/model"
)

func TestLogReport(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	sink, err := delivery.New(delivery.Config{ReportWebhookURL: srv.URL})
	require.NoError(t, err)

	sink.LogReport(context.Background(), model.Report{
		Commits:  []string{"- [abc1234] fix retry loop by Alice"},
		Analysis: model.AnalysisResult{Source: model.AnalysisSourceSonar, Metrics: map[string]float64{"bugs": 2}},
		Summary:  "periodic report",
	})

	var got model.Report
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, []string{"- [abc1234] fix retry loop by Alice"}, got.Commits)
	assert.Equal(t, "periodic report", got.Summary)
	assert.Equal(t, float64(2), got.Analysis.Metrics["bugs"])
}

func TestLogReportWithoutWebhookConfigured(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	sink, err := delivery.New(delivery.Config{})
	require.NoError(t, err)

	// must not panic and must not call anywhere
	sink.LogReport(context.Background(), model.Report{Summary: "s"})
	assert.EqualValues(t, 0, calls.Load())
}

func TestSendCallback(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	sink, err := delivery.New(delivery.Config{})
	require.NoError(t, err)

	msg := model.OutboundMessage{
		Message:   "🚀 Recent Code Changes:",
		Username:  "GitPulse Bot",
		EventName: "gitpulse_report",
		Status:    "success",
	}
	require.NoError(t, sink.SendCallback(context.Background(), srv.URL, msg))

	var got model.OutboundMessage
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, msg, got)
}
