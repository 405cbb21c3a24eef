package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/semaphore"

	"docscan/internal/config"
	"docscan/internal/data"
	"docscan/internal/logger"
)

// Processor is the part of the pipeline the HTTP layer needs.
type Processor interface {
	Process(ctx context.Context, imageData []byte, filename string) (*data.Report, error)
}

type Server struct {
	processor Processor
	cfg       config.Config

	requestSem *semaphore.Weighted
	limiters   sync.Map // client IP -> *rate.Limiter

	totalRequests  atomic.Int64
	activeRequests atomic.Int64
}

func New(processor Processor, cfg config.Config) *Server {
	return &Server{
		processor:  processor,
		cfg:        cfg,
		requestSem: semaphore.NewWeighted(cfg.MaxConcurrentRequests),
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.withLogging, s.withRecovery, withCORS)

	r.Get("/", s.handleHome)
	r.Get("/health", s.handleHealth)
	r.With(s.withRateLimit, s.withConcurrencyLimit).Post("/process", s.handleProcess)

	return r
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.Routes(),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
	}

	go s.cleanupRateLimiters(ctx, 5*time.Minute)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("docscan listening", "addr", srv.Addr, "max_concurrent", s.cfg.MaxConcurrentRequests)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// cleanupRateLimiters drops every per-IP limiter on each tick.
func (s *Server) cleanupRateLimiters(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.limiters.Range(func(key, _ any) bool {
				s.limiters.Delete(key)
				return true
			})
			logger.DebugLog("[stats] active=%d total=%d", s.activeRequests.Load(), s.totalRequests.Load())
		}
	}
}
