// Package fetch provides a GET client with bounded retry and exponential
// backoff for transient network failures. HTTP error statuses are returned
// to the caller immediately and are never retried.
package fetch

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
	"golang.org/x/oauth2"
)

const (
	defaultRetries = 3
	defaultTimeout = 10 * time.Second
	defaultBackoff = time.Second
)

// Config represents retrying fetcher configuration.
type Config struct {
	// Retries is the maximum number of attempts, values <= 1 mean a single
	// attempt with no backoff wait.
	Retries int `yaml:"retries" env:"FETCH_RETRIES"`

	// Timeout applies per attempt, not to the whole call.
	Timeout time.Duration `yaml:"timeout" env:"FETCH_TIMEOUT"`

	// Backoff is the base wait unit: the wait before attempt N+1 is
	// Backoff * 2^N.
	Backoff time.Duration `yaml:"backoff" env:"FETCH_BACKOFF"`
}

// PrepareAndValidate fills defaults.
func (cfg *Config) PrepareAndValidate() error {
	cfg.Retries = lang.Check(cfg.Retries, defaultRetries)
	cfg.Timeout = lang.Check(cfg.Timeout, defaultTimeout)
	cfg.Backoff = lang.Check(cfg.Backoff, defaultBackoff)
	return nil
}

// Response is the outcome of a completed HTTP exchange. A non-2xx status is
// a completed exchange, not an error: callers decide what to do with it.
type Response struct {
	StatusCode int
	Body       []byte
}

// IsError reports whether the response carries an HTTP error status.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// Client wraps a single GET request with bounded retry.
type Client struct {
	cli *resty.Client
	cfg Config
	log logze.Logger
}

// New creates a new retrying fetcher.
func New(cfg Config) (*Client, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}
	return &Client{
		cli: resty.New().SetTimeout(cfg.Timeout),
		cfg: cfg,
		log: logze.With("module", "fetch"),
	}, nil
}

// NewWithToken creates a fetcher whose transport injects a static bearer
// token into every request.
func NewWithToken(ctx context.Context, cfg Config, token string) (*Client, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &Client{
		cli: resty.NewWithClient(oauth2.NewClient(ctx, ts)).SetTimeout(cfg.Timeout),
		cfg: cfg,
		log: logze.With("module", "fetch"),
	}, nil
}

// Get performs the request with up to cfg.Retries attempts. Transport and
// timeout failures are retried after an exponential backoff wait; the last
// attempt's failure is propagated. Any completed exchange, including one
// with an error status, is returned immediately without retry.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	attempts := max(c.cfg.Retries, 1)

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			wait := c.cfg.Backoff << (attempt - 1)
			c.log.Debug("retrying request", "url", url, "attempt", attempt, "wait", wait)
			if err := sleep(ctx, wait); err != nil {
				return nil, err
			}
		}

		resp, err := c.cli.R().SetContext(ctx).SetHeaders(headers).Get(url)
		if err != nil {
			lastErr = err
			continue
		}

		return &Response{
			StatusCode: resp.StatusCode(),
			Body:       resp.Body(),
		}, nil
	}

	return nil, errm.Wrap(lastErr, "all attempts failed")
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
