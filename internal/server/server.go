// Package server provides the HTTP server for the application.
// It handles server lifecycle, API routes, and graceful shutdown.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/resumeforge/resumeforge/internal/api/handler"
	"github.com/resumeforge/resumeforge/internal/api/router"
	"github.com/resumeforge/resumeforge/internal/config"
	"github.com/resumeforge/resumeforge/internal/render"
	"github.com/resumeforge/resumeforge/internal/store"
	"github.com/resumeforge/resumeforge/pkg/logger"
)

// HTTP server timeout configuration
const (
	defaultReadTimeout = 30 * time.Second
	// Exports stream back on the request; the write timeout must cover
	// the full operation ceiling.
	defaultWriteTimeout    = 150 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 30 * time.Second
	defaultStopTimeout     = 5 * time.Second
)

// Server represents the HTTP server
type Server struct {
	cfg        *config.Config
	httpServer *http.Server
	exporter   handler.Exporter
	renderer   render.Renderer
	router     *gin.Engine
	store      store.Store
}

// New creates a new server instance
func New(cfg *config.Config, exporter handler.Exporter, renderer render.Renderer, s store.Store) *Server {
	// Set Gin mode based on debug flag
	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Disable automatic trailing slash redirect to avoid redirect loops with SPA routing
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	return &Server{
		cfg:      cfg,
		exporter: exporter,
		renderer: renderer,
		router:   r,
		store:    s,
	}
}

// SetupRoutes configures all routes
func (s *Server) SetupRoutes() {
	router.Setup(s.router, s.exporter, s.renderer, s.cfg, s.store)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Server.Address(),
		Handler:      s.router,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	logger.Info("Starting HTTP server",
		zap.String("address", s.cfg.Server.Address()),
		zap.Bool("debug", s.cfg.Server.Debug),
	)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	return nil
}

// WaitForShutdown waits for shutdown signal and gracefully stops the server
// First signal triggers graceful shutdown, second signal forces immediate exit
func (s *Server) WaitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logger.Info("Received shutdown signal, starting graceful shutdown (press Ctrl+C again to force exit)",
		zap.String("signal", sig.String()))

	go func() {
		sig := <-quit
		logger.Warn("Received second shutdown signal, forcing exit",
			zap.String("signal", sig.String()))
		os.Exit(1)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}

// Stop stops the server immediately
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultStopTimeout)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// Router returns the underlying Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}
