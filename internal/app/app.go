package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/trunov/imgconvert/internal/apidoc"
	"github.com/trunov/imgconvert/internal/cache"
	"github.com/trunov/imgconvert/internal/config"
	"github.com/trunov/imgconvert/internal/converter"
	"github.com/trunov/imgconvert/internal/redisholder"
	"github.com/trunov/imgconvert/internal/transport/handler"
	"github.com/trunov/imgconvert/internal/transport/router"
	use_case "github.com/trunov/imgconvert/internal/use-case"
)

type App struct {
	HttpServer *http.Server

	cfg    *config.Config
	logger *slog.Logger
	holder *redisholder.Holder
	stop   context.CancelFunc
}

func New(cfg *config.Config, version string) (*App, error) {
	logger := NewLogger(cfg.Log)

	ctx, stop := context.WithCancel(context.Background())

	var (
		outputs use_case.Cache
		holder  *redisholder.Holder
	)
	if cfg.Cache.Enabled {
		h, err := redisholder.Build(ctx, &cfg.Cache.Redis, logger)
		if err != nil {
			stop()
			return nil, fmt.Errorf("redis: %w", err)
		}
		holder = h
		c := cache.NewCache(cfg.Cache.Namespace, holder)
		if cfg.Cache.FlushOnStart {
			flushCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := c.Flush(flushCtx)
			cancel()
			if err != nil {
				logger.Warn("output cache flush failed", "error", err)
			} else {
				logger.Info("output cache flushed", "namespace", cfg.Cache.Namespace)
			}
		}
		outputs = c
		logger.Info("output cache enabled", "namespace", cfg.Cache.Namespace, "ttl_seconds", cfg.Cache.TTLSeconds)
	}

	uc := use_case.New(converter.New(cfg.Conversion), outputs, cfg.Cache.TTLSeconds, logger)

	h := handler.New(uc, cfg, apidoc.Build(version), logger)
	r := router.NewRouter(h, logger)

	s := &http.Server{
		Handler:      r,
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout * time.Second,
		WriteTimeout: cfg.Server.WriteTimeout * time.Second,
	}

	return &App{
		HttpServer: s,
		cfg:        cfg,
		logger:     logger,
		holder:     holder,
		stop:       stop,
	}, nil
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the configured shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting server", "addr", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout*time.Second)
	defer cancel()

	if err := a.HttpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func (a *App) close() {
	a.stop()
	if a.holder != nil {
		if err := a.holder.Close(); err != nil {
			a.logger.Warn("redis close", "error", err)
		}
	}
}

// NewLogger builds the process logger from the log section.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(os.Stderr, opts)
	} else {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(h)
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
