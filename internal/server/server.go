// Package server exposes the evaluator over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/destiny/core"
	"github.com/huangsam/destiny/internal/contract"
	"github.com/huangsam/destiny/internal/datatable"
	"github.com/huangsam/destiny/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server serves the destiny API. One evaluator is shared by all requests.
type Server struct {
	cfg    *contract.Config
	mgr    contract.CacheManager
	ev     *core.Evaluator
	log    *zap.Logger
	engine *gin.Engine
}

// New loads the data table and builds the router.
func New(cfg *contract.Config, mgr contract.CacheManager, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	table, err := datatable.Resolve(cfg.DataFile)
	if err != nil {
		return nil, err
	}

	opts := []core.EvaluatorOption{core.WithObserver(metrics.Observer{Source: "http"})}
	if cfg.HasSeed {
		opts = append(opts, core.WithSeed(cfg.Seed))
	}

	s := &Server{
		cfg: cfg.Clone(),
		mgr: mgr,
		ev:  core.NewEvaluator(table, opts...),
		log: log,
	}
	s.engine = s.setupRouter()
	return s, nil
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupRouter() *gin.Engine {
	if s.cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))

	h := &apiHandler{server: s}
	api := r.Group("/api/v1")
	{
		api.GET("/health", h.handleHealth)
		api.GET("/signs", h.handleSigns)
		api.GET("/tiers", h.handleTiers)
		api.POST("/evaluate", h.handleEvaluate)
		api.POST("/share-text", h.handleShareText)
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// requestLogger counts and logs every request by its route template.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.ObserveRequest(route, status)
		log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", time.Since(start)))
	}
}
