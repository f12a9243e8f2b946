package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/runnerr0/rhtasks/internal/config"
	"github.com/runnerr0/rhtasks/internal/extract"
	"github.com/runnerr0/rhtasks/internal/history"
)

//go:embed templates/*.html
var templateFS embed.FS

// Extractor is the transform the handlers run on each upload.
type Extractor interface {
	Extract(t *history.Table, p extract.Params) (*extract.Result, error)
}

// Server is the upload shell around an Extractor.
type Server struct {
	extractor Extractor
	cfg       config.ServerConfig
	logger    *zap.Logger
	router    *gin.Engine
	now       func() time.Time
}

// NewServer creates a new web server. Each request runs its own transform;
// the server holds no per-upload state.
func NewServer(extractor Extractor, cfg config.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	router := gin.New()
	router.Use(RequestLogger(logger), Recovery(logger))
	router.SetHTMLTemplate(template.Must(
		template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")))

	s := &Server{
		extractor: extractor,
		cfg:       cfg,
		logger:    logger,
		router:    router,
		now:       time.Now,
	}

	// Web routes
	router.GET("/", s.handleIndex)
	router.POST("/extract", s.limitBody, s.handleExtract)
	router.POST("/download", s.limitBody, s.handleDownload)
	router.GET("/healthz", s.handleHealth)

	// API routes
	api := router.Group("/api")
	{
		api.POST("/extract", s.limitBody, s.handleAPIExtract)
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
