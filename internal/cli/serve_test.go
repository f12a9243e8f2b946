package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/runnerr0/rhtasks/internal/config"
	"github.com/runnerr0/rhtasks/internal/web"
)

func TestServe_AppliesOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.Mode = "test"

	var got *web.Server
	cmd := &ServeCommand{
		Host:    "0.0.0.0",
		Port:    9100,
		globals: &GlobalFlags{},
		version: "test",
		run: func(_ context.Context, s *web.Server) error {
			got = s
			return nil
		},
	}

	var err error
	output := captureOutput(t, func() {
		err = cmd.executeWithConfig(context.Background(), cfg, zap.NewNop())
	})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "0.0.0.0:9100", got.Addr())
	assert.Contains(t, output, "serving on http://0.0.0.0:9100")

	w := httptest.NewRecorder()
	got.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServe_InvalidPort(t *testing.T) {
	cfg := config.DefaultConfig()
	cmd := &ServeCommand{Port: 70000, globals: &GlobalFlags{}, version: "test",
		run: func(context.Context, *web.Server) error { return nil }}

	err := cmd.executeWithConfig(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestServe_InvalidZone(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Extraction.TargetZone = "Mars/Olympus_Mons"
	cmd := &ServeCommand{globals: &GlobalFlags{}, version: "test",
		run: func(context.Context, *web.Server) error { return nil }}

	err := cmd.executeWithConfig(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestServe_RunsUntilCancelled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.Mode = "test"
	cfg.Server.Port = 18573
	cmd := &ServeCommand{globals: &GlobalFlags{}, version: "test"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	captureOutput(t, func() {
		assert.NoError(t, cmd.executeWithConfig(ctx, cfg, zap.NewNop()))
	})
}
