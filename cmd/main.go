package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/trunov/imgconvert/internal/app"
	"github.com/trunov/imgconvert/internal/config"
)

const version = "v1"

func initSentry(cfg *config.SentryConfig, version string) error {
	return sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     version,
	})
}

func main() {
	file := flag.String("config", "config.json", "path to a JSON or YAML config file")
	flag.Parse()

	cfg := config.NewConfig()
	err := cfg.Read(*file)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("config %s not found, using defaults", *file)
	} else if err != nil {
		log.Fatal(err)
	}

	err = initSentry(&cfg.Sentry, version)
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}

	// Flush buffered events before the program terminates.
	defer sentry.Flush(2 * time.Second)

	a, err := app.New(cfg, version)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		log.Fatal(err)
	}
}
