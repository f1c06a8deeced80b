// Package server exposes the describe pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ppiankov/ulancrm/internal/crm"
	"github.com/ppiankov/ulancrm/internal/model"
)

// Service maps identifiers to entity graphs
type Service interface {
	Describe(ctx context.Context, id string) (*crm.Entity, error)
	Records() int
	Documents() int
}

// Server serves entity graphs at /:id
type Server struct {
	svc      Service
	router   *gin.Engine
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the server
type Option func(*Server)

// WithGatherer exposes gatherer at /metrics
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithLogger sets the server logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithAccessLog adds gin's request logger
func WithAccessLog() Option {
	return func(s *Server) { s.router.Use(gin.Logger()) }
}

// New builds the router
func New(svc Service, opts ...Option) *Server {
	s := &Server{
		svc:    svc,
		router: gin.New(),
		logger: slog.Default(),
	}
	s.router.Use(gin.Recovery(), RequestID(), CORS())
	for _, opt := range opts {
		opt(s)
	}

	s.router.GET("/health", s.health)
	if s.gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}
	s.router.GET("/:id", s.describe)
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"records":   s.svc.Records(),
		"documents": s.svc.Documents(),
	})
}

func (s *Server) describe(c *gin.Context) {
	id := c.Param("id")

	entity, err := s.svc.Describe(c.Request.Context(), id)
	if err != nil {
		if model.IsNotFound(err) {
			s.logger.Debug("not found", "id", id, "request_id", c.GetString(requestIDKey), "error", err)
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		s.logger.Error("describe failed", "id", id, "request_id", c.GetString(requestIDKey), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	data, err := crm.Marshal(entity)
	if err != nil {
		s.logger.Error("marshal failed", "id", id, "request_id", c.GetString(requestIDKey), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}
