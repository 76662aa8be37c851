// Package github reads recent commits of the monitored repository from the
// GitHub commits API and normalizes them into model.CommitRecord values.
package github

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v57/github"
	jsoniter "github.com/json-iterator/go"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"

	"github.com/maxbolgarin/gitpulse/internal/fetch"
	"github.com/maxbolgarin/gitpulse/internal/model"
)

var _ model.CommitSource = (*Provider)(nil)

const defaultBaseURL = "https://api.github.com"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNoToken is returned when the access token is not configured.
// No upstream call is attempted in that case.
var ErrNoToken = errm.New("GITHUB_TOKEN not set")

// StatusError is an HTTP error status from the commits API with the
// response body preserved.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GitHub API error: %d %s", e.StatusCode, e.Body)
}

// Config represents commit reader configuration.
type Config struct {
	Token   string `yaml:"token" env:"GITHUB_TOKEN"`
	Owner   string `yaml:"owner" env:"GITHUB_OWNER"`
	Repo    string `yaml:"repo" env:"GITHUB_REPO"`
	BaseURL string `yaml:"base_url" env:"GITHUB_BASE_URL"`
}

// PrepareAndValidate fills defaults. A missing token is not an error here:
// it is reported by ListRecentCommits so that a misconfigured bot still
// starts and answers ticks.
func (cfg *Config) PrepareAndValidate() error {
	cfg.BaseURL = lang.Check(cfg.BaseURL, defaultBaseURL)
	if cfg.Owner == "" || cfg.Repo == "" {
		return errm.New("github owner and repo are required")
	}
	return nil
}

// Provider implements the CommitSource interface for GitHub.
type Provider struct {
	fetcher *fetch.Client
	cfg     Config
	log     logze.Logger
}

// New creates a new GitHub commit reader on top of the retrying fetcher.
func New(cfg Config, fetcher *fetch.Client) (*Provider, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}
	return &Provider{
		fetcher: fetcher,
		cfg:     cfg,
		log:     logze.With("provider", "github"),
	}, nil
}

// ListRecentCommits returns the newest count commits of the configured
// repository in upstream order. If the upstream returns fewer entries,
// all of them are returned. All failure paths come back as errors, never
// as panics: a missing token as ErrNoToken without any call, an HTTP
// error status as *StatusError with the body preserved.
func (p *Provider) ListRecentCommits(ctx context.Context, count int) ([]model.CommitRecord, error) {
	if p.cfg.Token == "" {
		return nil, ErrNoToken
	}

	url := fmt.Sprintf("%s/repos/%s/%s/commits", p.cfg.BaseURL, p.cfg.Owner, p.cfg.Repo)
	p.log.Info("fetching recent commits", "owner", p.cfg.Owner, "repo", p.cfg.Repo, "count", count)

	resp, err := p.fetcher.Get(ctx, url, map[string]string{
		"Accept": "application/vnd.github+json",
	})
	if err != nil {
		return nil, errm.Wrap(err, "failed to fetch commits")
	}
	if resp.IsError() {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	var commits []*github.RepositoryCommit
	if err := json.Unmarshal(resp.Body, &commits); err != nil {
		return nil, errm.Wrap(err, "failed to decode commits response")
	}

	if count > 0 && len(commits) > count {
		commits = commits[:count]
	}

	records := make([]model.CommitRecord, 0, len(commits))
	for _, c := range commits {
		records = append(records, model.CommitRecord{
			SHA:     c.GetSHA(),
			Message: c.GetCommit().GetMessage(),
			Author:  c.GetCommit().GetAuthor().GetName(),
			Date:    c.GetCommit().GetAuthor().GetDate().Format(time.RFC3339),
		})
	}

	return records, nil
}
