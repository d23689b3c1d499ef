package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Create new config instance with defaults applied
func NewConfig() *Config {
	c := &Config{Conversion: DefaultConversion()}
	c.ApplyDefaults()
	return c
}

// Load configuration file in json or yaml format, chosen by extension.
// Values missing from the file keep their defaults.
func (c *Config) Read(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config %s: %w", file, err)
	}

	c.ApplyDefaults()
	return c.Validate()
}

// DefaultConversion follows the usual codec defaults: jpeg 80, webp 80,
// avif 50 at speed 8. Zero is a valid value for every field, so these are
// set by NewConfig before a file is read rather than filled in afterwards.
func DefaultConversion() ConversionConfig {
	return ConversionConfig{
		JPEGQuality: 80,
		WebPQuality: 80,
		AVIFQuality: 50,
		AVIFSpeed:   8,
	}
}

// ApplyDefaults fills zero values outside the conversion section.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 120
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Upload.MaxRequestBodyMB == 0 {
		c.Upload.MaxRequestBodyMB = 50
	}
	if c.Upload.MaxMultipartMemoryMB == 0 {
		c.Upload.MaxMultipartMemoryMB = 32
	}
	if c.Cache.Namespace == "" {
		c.Cache.Namespace = "imgconvert:outputs"
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 3600
	}
	if c.Cache.Redis.HealthCheckInterval == 0 {
		c.Cache.Redis.HealthCheckInterval = 30
	}
	if c.Cache.Redis.DialTimeout == 0 {
		c.Cache.Redis.DialTimeout = 5
	}
	if c.Cache.Redis.ReadTimeout == 0 {
		c.Cache.Redis.ReadTimeout = 3
	}
	if c.Cache.Redis.WriteTimeout == 0 {
		c.Cache.Redis.WriteTimeout = 3
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Upload.MaxMultipartMemoryMB > c.Upload.MaxRequestBodyMB {
		errs = append(errs, errors.New("upload.max_multipart_memory exceeds upload.max_request_body"))
	}
	for name, q := range map[string]int{
		"jpeg_quality": c.Conversion.JPEGQuality,
		"webp_quality": c.Conversion.WebPQuality,
		"avif_quality": c.Conversion.AVIFQuality,
	} {
		if q < 0 || q > 100 {
			errs = append(errs, fmt.Errorf("conversion.%s %d out of range 0-100", name, q))
		}
	}
	if c.Conversion.AVIFSpeed < 0 || c.Conversion.AVIFSpeed > 10 {
		errs = append(errs, fmt.Errorf("conversion.avif_speed %d out of range 0-10", c.Conversion.AVIFSpeed))
	}
	// png levels run from BestCompression (-3) up to DefaultCompression (0).
	if c.Conversion.PNGCompression < int(png.BestCompression) || c.Conversion.PNGCompression > int(png.DefaultCompression) {
		errs = append(errs, fmt.Errorf("conversion.png_compression %d out of range", c.Conversion.PNGCompression))
	}
	if c.Cache.Enabled && len(c.Cache.Redis.Nodes) == 0 {
		errs = append(errs, errors.New("cache.redis.nodes is required when cache is enabled"))
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be json or text", c.Log.Format))
	}

	return errors.Join(errs...)
}
