// Package server exposes the operational HTTP surface: liveness, a small
// status document, and Prometheus metrics. It injects correlation IDs into
// request contexts for consistent logging.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xcornflowerx/flowerbot/bot"
	"github.com/xcornflowerx/flowerbot/telemetry"
)

// Info is the static part of the /status document.
type Info struct {
	Channel           string    `json:"channel"`
	FlowermonsEnabled bool      `json:"flowermons_enabled"`
	Started           time.Time `json:"-"`
}

// NewMux returns the HTTP handler with all routes.
func NewMux(b *bot.Bot, info Info) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		payload := struct {
			Info
			DeathCount     int     `json:"death_count"`
			UptimeSeconds  float64 `json:"uptime_seconds"`
			TracingEnabled bool    `json:"tracing_enabled"`
		}{
			Info:           info,
			DeathCount:     b.DeathCount(),
			UptimeSeconds:  time.Since(info.Started).Seconds(),
			TracingEnabled: telemetry.IsTracingEnabled(),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	})

	// Correlation ID injector.
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		corr := r.Header.Get("X-Correlation-ID")
		if corr == "" {
			corr = uuid.New().String()
		}
		ctx := telemetry.WithCorrelation(r.Context(), corr)
		w.Header().Set("X-Correlation-ID", corr)
		telemetry.LoggerWithCorr(ctx).Debug("request", slog.String("method", r.Method), slog.String("path", r.URL.Path))
		mux.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Start runs the HTTP server until ctx is cancelled.
func Start(ctx context.Context, addr string, b *bot.Bot, info Info) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      NewMux(b, info),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("http server shutdown error", slog.Any("err", err))
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("http server error", slog.Any("err", err))
		return err
	}
	return nil
}
