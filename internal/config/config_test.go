package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 80, cfg.Conversion.JPEGQuality)
	assert.Equal(t, 80, cfg.Conversion.WebPQuality)
	assert.Equal(t, 50, cfg.Conversion.AVIFQuality)
	assert.Equal(t, 8, cfg.Conversion.AVIFSpeed)
	assert.False(t, cfg.Cache.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestReadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"server": {"port": 9090, "read_timeout": 5},
		"upload": {"max_request_body": 10, "max_multipart_memory": 8},
		"conversion": {"jpeg_quality": 70, "avif_speed": 6},
		"sentry": {"sentry_dsn": "", "environment": "test"}
	}`)

	cfg := NewConfig()
	require.NoError(t, cfg.Read(path))

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.EqualValues(t, 5, cfg.Server.ReadTimeout)
	assert.EqualValues(t, 120, cfg.Server.WriteTimeout)
	assert.EqualValues(t, 10, cfg.Upload.MaxRequestBodyMB)
	assert.Equal(t, 70, cfg.Conversion.JPEGQuality)
	assert.Equal(t, 80, cfg.Conversion.WebPQuality)
	assert.Equal(t, 6, cfg.Conversion.AVIFSpeed)
	assert.Equal(t, "test", cfg.Sentry.Environment)
}

func TestReadKeepsExplicitZeroQuality(t *testing.T) {
	path := writeFile(t, "config.yaml", `
conversion:
  jpeg_quality: 0
  avif_speed: 0
`)

	cfg := NewConfig()
	require.NoError(t, cfg.Read(path))

	assert.Equal(t, 0, cfg.Conversion.JPEGQuality)
	assert.Equal(t, 0, cfg.Conversion.AVIFSpeed)
	assert.Equal(t, 80, cfg.Conversion.WebPQuality)
	assert.Equal(t, 50, cfg.Conversion.AVIFQuality)
}

func TestReadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  port: 8181
conversion:
  webp_quality: 65
cache:
  enabled: true
  ttl_seconds: 60
  redis:
    nodes:
      - host: localhost
        port: 6379
log:
  level: debug
  format: text
`)

	cfg := NewConfig()
	require.NoError(t, cfg.Read(path))

	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, 65, cfg.Conversion.WebPQuality)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 60, cfg.Cache.TTLSeconds)
	require.Len(t, cfg.Cache.Redis.Nodes, 1)
	assert.Equal(t, "localhost:6379", cfg.Cache.Redis.Nodes[0].Addr())
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestReadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		err := NewConfig().Read(filepath.Join(t.TempDir(), "nope.json"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeFile(t, "config.json", `{"server": `)
		assert.Error(t, NewConfig().Read(path))
	})

	t.Run("invalid values", func(t *testing.T) {
		path := writeFile(t, "config.json", `{
			"conversion": {"jpeg_quality": 120, "avif_speed": 11},
			"cache": {"enabled": true},
			"log": {"format": "xml"}
		}`)
		err := NewConfig().Read(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jpeg_quality")
		assert.Contains(t, err.Error(), "avif_speed")
		assert.Contains(t, err.Error(), "cache.redis.nodes")
		assert.Contains(t, err.Error(), "log.format")
	})
}
