// Package retention periodically deletes completed run records and their
// history snapshots once they age past the configured retention window.
package retention

import (
	"context"
	"log/slog"
	"time"

	"github.com/lattics/lattics/pkg/config"
	"github.com/lattics/lattics/pkg/storage"
)

// Service runs the retention sweep on a fixed interval. All operations are
// idempotent and safe to run from multiple instances.
type Service struct {
	config *config.RetentionConfig
	store  *storage.Client

	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates a new retention service.
func NewService(cfg *config.RetentionConfig, store *storage.Client) *Service {
	return &Service{config: cfg, store: store}
}

// Start launches the background retention loop.
func (s *Service) Start(ctx context.Context) {
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)

	slog.Info("Retention service started",
		"run_retention", s.config.RunRetention,
		"interval", s.config.CleanupInterval)
}

// Stop signals the retention loop to exit and waits for it to finish.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	slog.Info("Retention service stopped")
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	s.sweep(ctx)

	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Service) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.config.RunRetention)
	count, err := s.store.DeleteRunsOlderThan(ctx, cutoff)
	if err != nil {
		slog.Error("Retention: delete old runs failed", "error", err)
		return
	}
	if count > 0 {
		slog.Info("Retention: deleted old runs", "count", count)
	}
}
