package config

import (
	"fmt"
	"time"
)

type Config struct {
	Server     ServerConfig     `json:"server" yaml:"server"`
	Upload     UploadConfig     `json:"upload" yaml:"upload"`
	Conversion ConversionConfig `json:"conversion" yaml:"conversion"`
	Cache      CacheConfig      `json:"cache" yaml:"cache"`
	Sentry     SentryConfig     `json:"sentry" yaml:"sentry"`
	Log        LogConfig        `json:"log" yaml:"log"`
}

// Timeouts are in seconds.
type ServerConfig struct {
	Port            int           `json:"port" yaml:"port"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type UploadConfig struct {
	MaxRequestBodyMB     int64 `json:"max_request_body" yaml:"max_request_body"`
	MaxMultipartMemoryMB int64 `json:"max_multipart_memory" yaml:"max_multipart_memory"`
}

// ConversionConfig holds the codec defaults used when the request carries no
// quality, and for formats that ignore it.
type ConversionConfig struct {
	JPEGQuality    int `json:"jpeg_quality" yaml:"jpeg_quality"`
	WebPQuality    int `json:"webp_quality" yaml:"webp_quality"`
	AVIFQuality    int `json:"avif_quality" yaml:"avif_quality"`
	AVIFSpeed      int `json:"avif_speed" yaml:"avif_speed"`           // 0 slowest .. 10 fastest
	PNGCompression int `json:"png_compression" yaml:"png_compression"` // image/png CompressionLevel, 0 is default
}

type CacheConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	Namespace  string `json:"namespace" yaml:"namespace"`
	TTLSeconds int    `json:"ttl_seconds" yaml:"ttl_seconds"`
	// FlushOnStart drops outputs cached by a previous run, e.g. after codec defaults changed.
	FlushOnStart bool        `json:"flush_on_start" yaml:"flush_on_start"`
	Redis        RedisConfig `json:"redis" yaml:"redis"`
}

type RedisConfig struct {
	Password            string        `json:"password" yaml:"password"`
	DatabaseID          int           `json:"database_id" yaml:"database_id"`
	HealthCheckInterval time.Duration `json:"health_check_interval" yaml:"health_check_interval"`
	DialTimeout         time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout         time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout        time.Duration `json:"write_timeout" yaml:"write_timeout"`
	PoolSize            int           `json:"pool_size" yaml:"pool_size"`
	Nodes               []RedisNode   `json:"nodes" yaml:"nodes"`
}

type RedisNode struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

func (n RedisNode) Addr() string { return fmt.Sprintf("%s:%d", n.Host, n.Port) }

type SentryConfig struct {
	SentryDSN   string `json:"sentry_dsn" yaml:"sentry_dsn"`
	Environment string `json:"environment" yaml:"environment"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // json or text
}
