package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/trunov/imgconvert/internal/batch"
	"github.com/trunov/imgconvert/internal/client"
	"github.com/trunov/imgconvert/internal/entities"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "conversion server base URL")
	to := flag.String("to", string(entities.FormatWebP), "target format: webp, png, jpeg or avif")
	quality := flag.Int("quality", -1, "quality 0-100 for jpeg and webp; -1 keeps the server default")
	out := flag.String("out", batch.ArchiveName, "archive path")
	workers := flag.Int("workers", 1, "requests in flight")
	timeout := flag.Duration("timeout", 0, "per-request timeout, 0 disables")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] files...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(logger, *server, *to, *quality, *out, *workers, *timeout, flag.Args()); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run(logger *slog.Logger, server, to string, quality int, out string, workers int, timeout time.Duration, names []string) error {
	format, err := entities.ParseFormat(to)
	if err != nil {
		return err
	}

	files := make([]batch.File, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		files = append(files, batch.File{Name: filepath.Base(name), Data: data})
	}

	opts := []batch.Option{
		batch.WithWorkers(workers),
		batch.WithProgress(func(p batch.Progress) {
			args := []any{"file", p.File, "progress", fmt.Sprintf("%.0f%%", p.Percent)}
			if p.Err != nil {
				logger.Warn(batch.ErrorMessage(p.File), append(args, "error", p.Err)...)
				return
			}
			logger.Info("converted", args...)
		}),
	}
	if quality >= 0 {
		opts = append(opts, batch.WithQuality(quality))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cl := client.New(server, client.WithTimeout(timeout))
	rep, err := batch.NewJob(cl, format, files, opts...).Run(ctx)
	if errors.Is(err, batch.ErrNothingConverted) {
		return errors.New(rep.LastError)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, rep.Archive, 0o644); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	logger.Info(rep.Success, "archive", out)
	return nil
}
