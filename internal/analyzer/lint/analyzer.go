// Package lint runs a linter subprocess against a local checkout of the
// monitored repository. This is the only place in the system with side
// effects outside process memory and network: it clones the repository
// once and spawns an external process.
package lint

import (
	"context"
	"os"
	"os/exec"
	"sync"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"

	"github.com/maxbolgarin/gitpulse/internal/model"
)

var _ model.Analyzer = (*Analyzer)(nil)

const (
	defaultGitBinary = "git"
	defaultCommand   = "golangci-lint"
)

var defaultArgs = []string{"run", "./..."}

// Config represents local-lint analyzer configuration.
type Config struct {
	// RepoURL is the clone source of the monitored repository.
	RepoURL string `yaml:"repo_url" env:"LINT_REPO_URL"`

	// ClonePath is the deterministic local checkout location. An existing
	// checkout is never updated, so repeated ticks analyze the snapshot
	// taken by the first clone.
	ClonePath string `yaml:"clone_path" env:"LINT_CLONE_PATH"`

	GitBinary string   `yaml:"git_binary" env:"LINT_GIT_BINARY"`
	Command   string   `yaml:"command" env:"LINT_COMMAND"`
	Args      []string `yaml:"args"`
}

// PrepareAndValidate fills defaults.
func (cfg *Config) PrepareAndValidate() error {
	cfg.GitBinary = lang.Check(cfg.GitBinary, defaultGitBinary)
	cfg.Command = lang.Check(cfg.Command, defaultCommand)
	if len(cfg.Args) == 0 {
		cfg.Args = defaultArgs
	}
	if cfg.RepoURL == "" {
		return errm.New("lint repo URL is required")
	}
	if cfg.ClonePath == "" {
		return errm.New("lint clone path is required")
	}
	return nil
}

// Analyzer implements the local-lint variant.
type Analyzer struct {
	cfg Config
	log logze.Logger

	// cloneMu serializes the clone-if-absent check: concurrently scheduled
	// ticks must not race git clone into the same directory.
	cloneMu sync.Mutex

	// run executes an external command in dir and returns its combined
	// output, replaced in tests.
	run func(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// New creates a new local-lint analyzer.
func New(cfg Config) (*Analyzer, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}
	return &Analyzer{
		cfg: cfg,
		log: logze.With("analyzer", "lint"),
		run: runCommand,
	}, nil
}

func (a *Analyzer) Name() string { return "lint" }

// Analyze ensures a local clone exists, then runs the linter against it.
// A linter that exits non-zero because of findings still yields usable
// report text: its output is the analysis result, not an error. The
// subprocess runs without a timeout.
func (a *Analyzer) Analyze(ctx context.Context) (model.AnalysisResult, error) {
	if err := a.ensureClone(ctx); err != nil {
		return model.AnalysisResult{}, err
	}

	a.log.Info("running linter", "command", a.cfg.Command, "path", a.cfg.ClonePath)

	out, err := a.run(ctx, a.cfg.ClonePath, a.cfg.Command, a.cfg.Args...)
	if err != nil && len(out) == 0 {
		return model.AnalysisResult{}, errm.Wrap(err, "linter produced no output")
	}
	if err != nil {
		a.log.Debug("linter exited with findings", "command", a.cfg.Command)
	}

	return model.AnalysisResult{
		Source: model.AnalysisSourceLint,
		Text:   string(out),
	}, nil
}

// ensureClone clones the repository only if the clone path is absent.
func (a *Analyzer) ensureClone(ctx context.Context) error {
	a.cloneMu.Lock()
	defer a.cloneMu.Unlock()

	if _, err := os.Stat(a.cfg.ClonePath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return errm.Wrap(err, "failed to stat clone path")
	}

	a.log.Info("cloning repository", "url", a.cfg.RepoURL, "path", a.cfg.ClonePath)

	out, err := a.run(ctx, "", a.cfg.GitBinary, "clone", a.cfg.RepoURL, a.cfg.ClonePath)
	if err != nil {
		return errm.Wrap(err, "failed to clone repository: "+string(out))
	}
	return nil
}

func runCommand(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}
