package entities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
		assert.Equal(t, "image/"+string(f), got.MIMEType())
	}

	for _, s := range []string{"", "bmp", "jpg", "WEBP", " png"} {
		_, err := ParseFormat(s)
		assert.True(t, errors.Is(err, ErrUnsupportedFormat), "format %q", s)
	}
}

func TestSupportsQuality(t *testing.T) {
	assert.True(t, FormatJPEG.SupportsQuality())
	assert.True(t, FormatWebP.SupportsQuality())
	assert.False(t, FormatPNG.SupportsQuality())
	assert.False(t, FormatAVIF.SupportsQuality())
}

func TestConversionResult(t *testing.T) {
	ok := Ok([]byte{1}, FormatPNG)
	assert.True(t, ok.OK())
	assert.Equal(t, "image/png", ok.MIMEType)

	failed := Failed(ErrConversionFailed)
	assert.False(t, failed.OK())
	assert.Nil(t, failed.Data)
}
