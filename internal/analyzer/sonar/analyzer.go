// Package sonar queries the SonarCloud measures API for aggregate
// code-quality metrics of a registered project.
package sonar

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"

	"github.com/maxbolgarin/gitpulse/internal/fetch"
	"github.com/maxbolgarin/gitpulse/internal/model"
)

var _ model.Analyzer = (*Analyzer)(nil)

const defaultBaseURL = "https://sonarcloud.io"

var (
	json = jsoniter.ConfigCompatibleWithStandardLibrary

	defaultMetricKeys = []string{"code_smells", "bugs", "vulnerabilities"}
)

// ErrNoCredentials is returned when the token or the project key is not
// configured. No upstream call is attempted in that case.
var ErrNoCredentials = errm.New("SonarCloud credentials not set")

// Config represents remote-metrics analyzer configuration.
type Config struct {
	Token      string   `yaml:"token" env:"SONAR_TOKEN"`
	ProjectKey string   `yaml:"project_key" env:"SONAR_PROJECT_KEY"`
	BaseURL    string   `yaml:"base_url" env:"SONAR_BASE_URL"`
	MetricKeys []string `yaml:"metric_keys" env:"SONAR_METRIC_KEYS"`
}

// PrepareAndValidate fills defaults. Missing credentials are reported by
// Analyze, not here, so the bot starts regardless.
func (cfg *Config) PrepareAndValidate() error {
	cfg.BaseURL = lang.Check(cfg.BaseURL, defaultBaseURL)
	if len(cfg.MetricKeys) == 0 {
		cfg.MetricKeys = defaultMetricKeys
	}
	return nil
}

// Analyzer implements the remote-metrics variant on top of the retrying
// fetcher.
type Analyzer struct {
	fetcher *fetch.Client
	cfg     Config
	log     logze.Logger
}

// New creates a new SonarCloud analyzer.
func New(cfg Config, fetcher *fetch.Client) (*Analyzer, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}
	return &Analyzer{
		fetcher: fetcher,
		cfg:     cfg,
		log:     logze.With("analyzer", "sonar"),
	}, nil
}

func (a *Analyzer) Name() string { return "sonar" }

// Analyze queries the measures endpoint and maps the returned measures
// into a metric-name to numeric value mapping.
func (a *Analyzer) Analyze(ctx context.Context) (model.AnalysisResult, error) {
	if a.cfg.Token == "" || a.cfg.ProjectKey == "" {
		return model.AnalysisResult{}, ErrNoCredentials
	}

	params := url.Values{}
	params.Set("component", a.cfg.ProjectKey)
	params.Set("metricKeys", strings.Join(a.cfg.MetricKeys, ","))
	requestURL := fmt.Sprintf("%s/api/measures/component?%s", a.cfg.BaseURL, params.Encode())

	a.log.Info("fetching analysis", "project", a.cfg.ProjectKey)

	resp, err := a.fetcher.Get(ctx, requestURL, map[string]string{
		"Authorization": "Bearer " + a.cfg.Token,
	})
	if err != nil {
		return model.AnalysisResult{}, errm.Wrap(err, "failed to fetch analysis")
	}
	if resp.IsError() {
		return model.AnalysisResult{}, errm.Errorf("SonarCloud API error: %d %s", resp.StatusCode, string(resp.Body))
	}

	var body measuresResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return model.AnalysisResult{}, errm.Wrap(err, "failed to decode measures response")
	}

	metrics := make(map[string]float64, len(body.Component.Measures))
	for _, m := range body.Component.Measures {
		value, err := strconv.ParseFloat(m.Value, 64)
		if err != nil {
			a.log.Warn("skipping non-numeric measure", "metric", m.Metric, "value", m.Value)
			continue
		}
		metrics[m.Metric] = value
	}

	return model.AnalysisResult{
		Source:  model.AnalysisSourceSonar,
		Metrics: metrics,
		Raw:     resp.Body,
	}, nil
}

type measuresResponse struct {
	Component struct {
		Key      string `json:"key"`
		Measures []struct {
			Metric string `json:"metric"`
			Value  string `json:"value"`
		} `json:"measures"`
	} `json:"component"`
}
