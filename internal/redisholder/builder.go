package redisholder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/trunov/imgconvert/internal/config"
)

func Build(ctx context.Context, cfg *config.RedisConfig, logger *slog.Logger) (*Holder, error) {
	var cl redis.UniversalClient
	cl, err := newClusterClient(cfg)
	if err != nil {
		clusterErr := err
		cl, err = newClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("create redis client: %w", err)
		}
		logger.Info("redis: cluster client failed; using single-node client", "error", clusterErr)
	}

	h := NewHolder(cl)

	go healthLoop(ctx, h, cfg, logger)

	return h, nil
}

func healthLoop(ctx context.Context, h *Holder, cfg *config.RedisConfig, logger *slog.Logger) {
	interval := cfg.HealthCheckInterval * time.Second
	logger.Debug("redis: health loop started", "interval", interval)

	ping := func() {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := h.Get().Ping(pingCtx).Err()
		cancel()

		if err == nil {
			return
		}
		logger.Warn("redis: ping failed; attempting reconnect", "error", err)

		var newCl redis.UniversalClient
		var newErr error
		// Rebuild client (cluster first, then fallback)
		newCl, newErr = newClusterClient(cfg)
		if newErr != nil {
			newCl, newErr = newClient(cfg)
		}
		if newErr != nil {
			logger.Error("redis: reconnect failed", "error", newErr)
			return
		}

		old := h.swap(newCl)
		if old != nil {
			_ = old.Close()
		}
		logger.Info("redis: reconnected successfully")
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = h.Close()
			logger.Debug("redis: health loop stopped", "reason", ctx.Err())
			return
		case <-t.C:
			ping()
		}
	}
}

// A single configured node is never treated as a cluster.
func newClusterClient(cfg *config.RedisConfig) (*redis.ClusterClient, error) {
	if len(cfg.Nodes) < 2 {
		return nil, errors.New("cluster needs at least two nodes")
	}

	nodeAddrs := make([]string, 0, len(cfg.Nodes))

	for _, node := range cfg.Nodes {
		nodeAddrs = append(nodeAddrs, node.Addr())
	}

	cl := redis.NewClusterClient(&redis.ClusterOptions{
		RouteByLatency: true,
		Password:       cfg.Password,
		Addrs:          nodeAddrs,
		DialTimeout:    cfg.DialTimeout * time.Second,
		ReadTimeout:    cfg.ReadTimeout * time.Second,
		WriteTimeout:   cfg.WriteTimeout * time.Second,
		PoolSize:       cfg.PoolSize,
		PoolTimeout:    30 * time.Second,
		MaxRetries:     3,
	})

	err := cl.Ping(context.Background()).Err()
	if err != nil {
		_ = cl.Close()
		return nil, fmt.Errorf("error pinging redis cluster: %w", err)
	}

	return cl, nil
}

func newClient(cfg *config.RedisConfig) (*redis.Client, error) {
	var stickyErr = errors.New("no nodes defined")

	for _, node := range cfg.Nodes {
		cl := redis.NewClient(&redis.Options{
			Addr:         node.Addr(),
			Password:     cfg.Password,
			DB:           cfg.DatabaseID,
			DialTimeout:  cfg.DialTimeout * time.Second,
			ReadTimeout:  cfg.ReadTimeout * time.Second,
			WriteTimeout: cfg.WriteTimeout * time.Second,
			PoolSize:     cfg.PoolSize,
		})

		err := cl.Ping(context.Background()).Err()
		if err != nil {
			_ = cl.Close()
			stickyErr = fmt.Errorf("error pinging redis server: %w", err)
			continue
		}

		return cl, nil
	}

	return nil, stickyErr
}
