package slackio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// ConnectionStatus reports the Socket Mode connection state.
type ConnectionStatus interface {
	IsConnected() bool
}

// HealthServer serves liveness and readiness probes.
type HealthServer struct {
	status ConnectionStatus
	port   int
}

func NewHealthServer(status ConnectionStatus, port int) *HealthServer {
	return &HealthServer{status: status, port: port}
}

func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()

	// liveness follows the socket connection
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if h.status.IsConnected() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("disconnected"))
	})

	// events queue on Slack's side while reconnecting
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	return mux
}

// Start serves until ctx is cancelled.
func (h *HealthServer) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", h.port),
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("starting health server", "port", h.port)

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down health server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("health server: %w", err)
	}
}
