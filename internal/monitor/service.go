// Package monitor runs the analysis pipeline for tick events: fetch recent
// commits, run the analyzer, format the report and deliver it.
package monitor

import (
	"context"

	"github.com/maxbolgarin/abstract"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
	"github.com/panjf2000/ants/v2"

	"github.com/maxbolgarin/gitpulse/internal/model"
	"github.com/maxbolgarin/gitpulse/internal/report"
)

var _ model.TickHandler = (*Service)(nil)

const (
	defaultCommitCount = 5
	defaultPoolSize    = 100
	defaultUsername    = "GitPulse Bot"
	defaultEventName   = "gitpulse_report"
)

// Config represents monitor service configuration.
type Config struct {
	CommitCount int    `yaml:"commit_count" env:"MONITOR_COMMIT_COUNT"`
	PoolSize    int    `yaml:"pool_size" env:"MONITOR_POOL_SIZE"`
	Username    string `yaml:"username" env:"MONITOR_USERNAME"`
	EventName   string `yaml:"event_name" env:"MONITOR_EVENT_NAME"`
}

// PrepareAndValidate fills defaults.
func (cfg *Config) PrepareAndValidate() error {
	cfg.CommitCount = lang.Check(cfg.CommitCount, defaultCommitCount)
	cfg.PoolSize = lang.Check(cfg.PoolSize, defaultPoolSize)
	cfg.Username = lang.Check(cfg.Username, defaultUsername)
	cfg.EventName = lang.Check(cfg.EventName, defaultEventName)
	return nil
}

// Service orchestrates one pipeline run per tick on a fixed-size pool.
type Service struct {
	source   model.CommitSource
	analyzer model.Analyzer
	sink     model.Deliverer
	pool     *ants.Pool
	cfg      Config
	log      logze.Logger

	// processed counts finished pipeline runs per channel, for logs only.
	processed *abstract.SafeMap[string, int]
}

// New creates a new monitor service.
func New(cfg Config, source model.CommitSource, analyzer model.Analyzer, sink model.Deliverer) (*Service, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}

	pool, err := ants.NewPool(cfg.PoolSize)
	if err != nil {
		return nil, errm.Wrap(err, "failed to create ants pool")
	}

	return &Service{
		source:    source,
		analyzer:  analyzer,
		sink:      sink,
		pool:      pool,
		cfg:       cfg,
		log:       logze.With("module", "monitor"),
		processed: abstract.NewSafeMap[string, int](),
	}, nil
}

// Stop releases the worker pool. In-flight pipelines are not awaited:
// a dropped in-flight task is simply lost.
func (s *Service) Stop(_ context.Context) error {
	s.pool.Release()
	return nil
}

// HandleTick schedules one pipeline run and returns immediately. The run is
// detached from the request context: once scheduled it cannot be cancelled
// and there is no handle to await it.
func (s *Service) HandleTick(_ context.Context, event model.TickEvent) error {
	log := s.log.WithFields("channel_id", event.ChannelID)
	log.Info("received tick event, processing in background")

	err := s.pool.Submit(func() {
		if err := s.runPipeline(context.Background(), event.ReturnURL, log); err != nil {
			log.Err(err, "pipeline failed")
			return
		}
		s.processed.Set(event.ChannelID, s.processed.Get(event.ChannelID)+1)
	})
	if err != nil {
		return errm.Wrap(err, "failed to schedule pipeline")
	}
	return nil
}

// RunOnce runs one full pipeline cycle synchronously. Used by the CLI mode.
func (s *Service) RunOnce(ctx context.Context, returnURL string) error {
	return s.runPipeline(ctx, returnURL, s.log)
}

// runPipeline is the whole analysis cycle. A commit-fetch or analysis
// failure short-circuits it: no partial report reaches any sink.
func (s *Service) runPipeline(ctx context.Context, returnURL string, log logze.Logger) error {
	timer := abstract.StartTimer()

	commits, err := s.source.ListRecentCommits(ctx, s.cfg.CommitCount)
	if err != nil {
		return errm.Wrap(err, "failed to fetch commits")
	}

	analysis, err := s.analyzer.Analyze(ctx)
	if err != nil {
		return errm.Wrap(err, "failed to run analysis: "+s.analyzer.Name())
	}

	rep := report.Build(commits, analysis)
	s.sink.LogReport(ctx, rep)

	msg := model.OutboundMessage{
		Message:   report.Message(rep),
		Username:  s.cfg.Username,
		EventName: s.cfg.EventName,
		Status:    "success",
	}
	if returnURL != "" {
		if err := s.sink.SendCallback(ctx, returnURL, msg); err != nil {
			return errm.Wrap(err, "failed to deliver callback")
		}
	}

	log.Info("tick processed",
		"commits", len(commits),
		"analyzer", s.analyzer.Name(),
		"elapsed_time", timer.ElapsedTime().String(),
	)
	return nil
}
