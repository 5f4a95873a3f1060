// Package api provides the HTTP control and status surface for the
// simulation engine: creating runs, polling their status, and cancelling
// them.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lattics/lattics/pkg/config"
	"github.com/lattics/lattics/pkg/runmanager"
	"github.com/lattics/lattics/pkg/storage"
)

// Server is the HTTP API server fronting the run manager.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	cfg        *config.Config
	store      *storage.Client
	runs       *runmanager.Manager
}

// NewServer wires routes onto a fresh gin.Engine.
func NewServer(cfg *config.Config, store *storage.Client, runs *runmanager.Manager) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router: router,
		cfg:    cfg,
		store:  store,
		runs:   runs,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.healthHandler)
	api := s.router.Group("/api/v1")
	{
		api.POST("/runs", s.createRunHandler)
		api.GET("/runs", s.listRunsHandler)
		api.GET("/runs/:id", s.getRunHandler)
		api.POST("/runs/:id/cancel", s.cancelRunHandler)
	}
}

// Start begins serving HTTP on cfg.Server.Port until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              ":" + s.cfg.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.httpServer.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
