package cli

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/runnerr0/rhtasks/internal/config"
	"github.com/runnerr0/rhtasks/internal/extract"
	"github.com/runnerr0/rhtasks/internal/logger"
)

// loadConfig reads --config when given, otherwise the default config file,
// creating it on first use. A default file that cannot be created falls
// back to built-in defaults.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	var cfg *config.Config
	if globals != nil && globals.Config != "" {
		path, err := config.ExpandPath(globals.Config)
		if err != nil {
			return nil, err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		cfg, err = config.LoadOrCreate()
		if err != nil {
			cfg = config.DefaultConfig()
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, globals *GlobalFlags) (*zap.Logger, error) {
	verbose := globals != nil && globals.Verbose
	l, err := logger.New(cfg.Logging, verbose)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return l, nil
}

func newExtractor(cfg config.ExtractionConfig, log *zap.Logger) (*extract.Extractor, error) {
	zones, err := extract.NewZones(cfg.SourceOffsetHours, cfg.TargetZone)
	if err != nil {
		return nil, err
	}
	return extract.New(extract.Options{
		URLMatch:  cfg.URLMatch,
		TaskParam: cfg.TaskParam,
		Zones:     zones,
	}, log), nil
}

// failure is a fatal run error rendered with its remediation hints.
type failure struct {
	err   error
	msg   string
	hints []string
}

func newFailure(err error) *failure {
	msg, hints := extract.Describe(err)
	return &failure{err: err, msg: msg, hints: hints}
}

func (f *failure) Error() string {
	if len(f.hints) == 0 {
		return f.msg
	}
	return f.msg + "\n" + strings.Join(f.hints, "\n")
}

func (f *failure) Unwrap() error {
	return f.err
}
