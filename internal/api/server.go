package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danieljhkim/previewdeck/internal/engine"
	"github.com/danieljhkim/previewdeck/internal/factory"
	"github.com/rs/zerolog"
)

// Server serves one preview manager.
type Server struct {
	manager *engine.Manager
	builder *factory.Builder
	logger  zerolog.Logger
}

// NewServer creates a Server.
func NewServer(m *engine.Manager, b *factory.Builder, logger zerolog.Logger) *Server {
	return &Server{
		manager: m,
		builder: b,
		logger:  logger.With().Str("component", "api").Logger(),
	}
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("dev console listening")
		errCh <- srv.ListenAndServe()
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
		s.logger.Info().Msg("dev console shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// requestLogger logs each request with its status and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		event := s.logger.Debug()
		if rw.status >= 400 {
			event = s.logger.Warn()
		}
		if rw.status >= 500 {
			event = s.logger.Error()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
