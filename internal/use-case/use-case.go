package use_case

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"

	"github.com/trunov/imgconvert/internal/cache"
	"github.com/trunov/imgconvert/internal/entities"
)

type Converter interface {
	Convert(reader io.Reader, format entities.Format, quality *int) ([]byte, error)
	EffectiveQuality(format entities.Format, quality *int) int
}

// Cache is optional; a nil Cache disables output caching.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Store(ctx context.Context, key string, ttl int, value []byte) error
}

type useCase struct {
	conv     Converter
	cache    Cache
	cacheTTL int
	logger   *slog.Logger
}

func New(conv Converter, c Cache, cacheTTL int, logger *slog.Logger) *useCase {
	return &useCase{
		conv:     conv,
		cache:    c,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// ConvertImage runs a single conversion attempt. Failures are returned as
// errors wrapping one of the entities sentinel errors.
func (c *useCase) ConvertImage(ctx context.Context, req entities.ConversionRequest) (entities.ConversionResult, error) {
	if len(req.Source) == 0 {
		return entities.Failed(entities.ErrInvalidRequest), entities.ErrInvalidRequest
	}
	if !req.Format.Valid() {
		err := fmt.Errorf("%w: %q", entities.ErrUnsupportedFormat, req.Format)
		return entities.Failed(err), err
	}

	id := uuid.NewString()
	sourceType := mimetype.Detect(req.Source).String()
	quality := c.conv.EffectiveQuality(req.Format, req.Quality)
	log := c.logger.With(
		"conversion_id", id,
		"source_name", req.SourceName,
		"source_type", sourceType,
		"source_size", len(req.Source),
		"target", req.Format.String(),
		"quality", quality,
	)

	key := cache.Key(req.Source, req.Format.String(), quality)
	if data, ok := c.lookup(ctx, log, key); ok {
		log.Info("conversion served from cache", "output_size", len(data))
		return entities.Ok(data, req.Format), nil
	}

	start := time.Now()
	data, err := c.conv.Convert(bytes.NewReader(req.Source), req.Format, req.Quality)
	if err != nil {
		if !errors.Is(err, entities.ErrConversionFailed) {
			err = fmt.Errorf("%w: %w", entities.ErrConversionFailed, err)
		}
		log.Error("conversion failed", "error", err)
		report(ctx, err, id, req.Format, sourceType)
		return entities.Failed(err), err
	}

	log.Info("conversion done", "output_size", len(data), "duration", time.Since(start))
	c.store(ctx, log, key, data)

	return entities.Ok(data, req.Format), nil
}

func (c *useCase) lookup(ctx context.Context, log *slog.Logger, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			log.Warn("cache lookup failed", "error", err)
		}
		return nil, false
	}
	return data, true
}

func (c *useCase) store(ctx context.Context, log *slog.Logger, key string, data []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Store(ctx, key, c.cacheTTL, data); err != nil {
		log.Warn("cache store failed", "error", err)
	}
}

func report(ctx context.Context, err error, id string, format entities.Format, sourceType string) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("conversion_id", id)
		scope.SetTag("target_format", format.String())
		scope.SetTag("source_type", sourceType)
		hub.CaptureException(err)
	})
}
