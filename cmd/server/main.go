package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"notehub/internal/config"
	"notehub/internal/store"
	"notehub/internal/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	setupLogger()

	cfg := config.Load()
	if cfg.AuthSecret == "" {
		slog.Error("NOTEHUB_AUTH_SECRET is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	st, err := store.Connect(connectCtx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		slog.Error("connect store", "err", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		_ = st.Close(closeCtx)
	}()
	if err := st.EnsureIndexes(connectCtx); err != nil {
		slog.Error("create indexes", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: web.NewServer(cfg, st).Handler(),
	}
	slog.Info("listening", "addr", cfg.ListenAddr)
	if err := runServer(ctx, srv); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
	slog.Info("stopped")
}

// runServer serves until the listener fails or ctx is cancelled, then
// drains in-flight requests before returning.
func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupLogger() {
	level := parseLogLevel(os.Getenv("NOTEHUB_LOG_LEVEL"))
	pretty := strings.EqualFold(os.Getenv("NOTEHUB_LOG_PRETTY"), "1") || strings.EqualFold(os.Getenv("NOTEHUB_LOG_PRETTY"), "true")

	var handler slog.Handler
	if pretty {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	if strings.TrimSpace(os.Getenv("DEV")) != "" {
		file, err := os.Create("dev.log")
		if err != nil {
			slog.Error("open log file", "path", "dev.log", "err", err)
		} else {
			_, _ = fmt.Fprintf(file, "=== notehub dev log start %s ===\n", time.Now().Format(time.RFC3339))
			fileHandler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
			handler = &teeHandler{handlers: []slog.Handler{handler, fileHandler}}
		}
	}
	slog.SetDefault(slog.New(handler))
}

func parseLogLevel(raw string) slog.Leveler {
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "info":
		level.Set(slog.LevelInfo)
	case "warn", "warning":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	}
	return level
}

type teeHandler struct {
	handlers []slog.Handler
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range t.handlers {
		if h.Enabled(ctx, record.Level) {
			if err := h.Handle(ctx, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, 0, len(t.handlers))
	for _, h := range t.handlers {
		out = append(out, h.WithAttrs(attrs))
	}
	return &teeHandler{handlers: out}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, 0, len(t.handlers))
	for _, h := range t.handlers {
		out = append(out, h.WithGroup(name))
	}
	return &teeHandler{handlers: out}
}
