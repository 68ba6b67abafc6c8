// Package server exposes the task store and the productivity analysis as
// a local JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/nhle/task-insights/internal/analytics"
	"github.com/nhle/task-insights/internal/metrics"
	"github.com/nhle/task-insights/internal/store"
)

// Config holds the listener and security settings.
type Config struct {
	Addr           string
	AllowedOrigins []string
	SigningKey     []byte
}

// Server provides HTTP handlers over a TaskStore.
type Server struct {
	engine   *gin.Engine
	handler  http.Handler
	store    store.TaskStore
	analyzer *analytics.Analyzer
	log      *logrus.Entry
	cfg      Config
}

// New constructs the HTTP server with routes and middleware configured.
func New(s store.TaskStore, a *analytics.Analyzer, log *logrus.Entry, cfg Config) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	srv := &Server{
		engine:   router,
		store:    s,
		analyzer: a,
		log:      log,
		cfg:      cfg,
	}
	router.Use(srv.observe)
	srv.registerRoutes()

	srv.handler = cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)
	return srv
}

// Handler returns the CORS-wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.cfg.Addr).Info("api server starting")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("api server shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	}
}

// registerRoutes wires all API handlers together.
func (s *Server) registerRoutes() {
	s.engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		authed := api.Group("", s.requireToken)
		{
			tasks := authed.Group("/tasks")
			{
				tasks.GET("", s.handleListTasks)
				tasks.POST("", s.handleCreateTask)
				tasks.POST("/:id/toggle", s.handleToggleTask)
				tasks.DELETE("/:id", s.handleDeleteTask)
			}

			analysis := authed.Group("/analysis")
			{
				analysis.GET("", s.handleAnalysis)
				analysis.GET("/today", s.handleToday)
				analysis.GET("/dashboard", s.handleDashboard)
			}

			authed.GET("/export.csv", s.handleExport)
		}
	}
}

// observe logs each request and records its metrics.
func (s *Server) observe(c *gin.Context) {
	start := time.Now()
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	status := c.Writer.Status()
	duration := time.Since(start)

	metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
	metrics.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(duration.Seconds())

	s.log.WithFields(logrus.Fields{
		"method":      c.Request.Method,
		"path":        c.Request.URL.Path,
		"status":      status,
		"duration_ms": duration.Milliseconds(),
		"remote_ip":   c.ClientIP(),
	}).Info("request completed")
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseID converts a path parameter to int64 with error handling.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
		return 0, false
	}
	return id, true
}

// respondError logs server-side failures and writes a JSON error payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// storeStatus maps store errors to HTTP status codes.
func storeStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrEmptyDescription), errors.Is(err, store.ErrInvalidPriority):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
