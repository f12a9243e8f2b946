package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/runnerr0/rhtasks/internal/config"
	"github.com/runnerr0/rhtasks/internal/web"
)

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, c.globals)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return c.executeWithConfig(ctx, cfg, log)
}

// executeWithConfig builds the server from cfg plus flag overrides and runs it.
func (c *ServeCommand) executeWithConfig(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if c.Host != "" {
		cfg.Server.Host = c.Host
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ex, err := newExtractor(cfg.Extraction, log)
	if err != nil {
		return err
	}
	srv := web.NewServer(ex, cfg.Server, log)

	fmt.Printf("rhtasks %s serving on http://%s\n", c.version, srv.Addr())

	run := c.run
	if run == nil {
		run = func(ctx context.Context, s *web.Server) error { return s.Run(ctx) }
	}
	return run(ctx, srv)
}
