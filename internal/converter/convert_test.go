package converter

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/chai2010/webp"
	"github.com/gen2brain/avif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trunov/imgconvert/internal/config"
	"github.com/trunov/imgconvert/internal/entities"
)

func newConverter() *Converter {
	return New(config.NewConfig().Conversion)
}

func pngSource(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 5), B: uint8((x + y) * 2), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func intPtr(v int) *int { return &v }

func decode(t *testing.T, format entities.Format, b []byte) image.Image {
	t.Helper()
	var (
		img image.Image
		err error
	)
	switch format {
	case entities.FormatPNG:
		img, err = png.Decode(bytes.NewReader(b))
	case entities.FormatJPEG:
		img, err = jpeg.Decode(bytes.NewReader(b))
	case entities.FormatWebP:
		img, err = webp.Decode(bytes.NewReader(b))
	case entities.FormatAVIF:
		img, err = avif.Decode(bytes.NewReader(b))
	}
	require.NoError(t, err, "output should decode as %s", format)
	return img
}

func TestConvertAllFormats(t *testing.T) {
	conv := newConverter()
	src := pngSource(t)

	for _, f := range entities.Formats {
		t.Run(string(f), func(t *testing.T) {
			out, err := conv.Convert(bytes.NewReader(src), f, nil)
			require.NoError(t, err)
			require.NotEmpty(t, out)

			img := decode(t, f, out)
			assert.Equal(t, 64, img.Bounds().Dx())
			assert.Equal(t, 48, img.Bounds().Dy())
		})
	}
}

func TestConvertFromJPEGSource(t *testing.T) {
	conv := newConverter()
	jpg, err := conv.Convert(bytes.NewReader(pngSource(t)), entities.FormatJPEG, nil)
	require.NoError(t, err)

	out, err := conv.Convert(bytes.NewReader(jpg), entities.FormatWebP, nil)
	require.NoError(t, err)
	decode(t, entities.FormatWebP, out)
}

func TestConvertHonorsQuality(t *testing.T) {
	conv := newConverter()
	src := pngSource(t)

	for _, f := range []entities.Format{entities.FormatJPEG, entities.FormatWebP} {
		t.Run(string(f), func(t *testing.T) {
			low, err := conv.Convert(bytes.NewReader(src), f, intPtr(5))
			require.NoError(t, err)
			high, err := conv.Convert(bytes.NewReader(src), f, intPtr(100))
			require.NoError(t, err)
			assert.Less(t, len(low), len(high))
		})
	}
}

func TestConvertIdempotent(t *testing.T) {
	conv := newConverter()
	src := pngSource(t)

	for _, f := range []entities.Format{entities.FormatPNG, entities.FormatJPEG, entities.FormatWebP} {
		first, err := conv.Convert(bytes.NewReader(src), f, intPtr(60))
		require.NoError(t, err)
		second, err := conv.Convert(bytes.NewReader(src), f, intPtr(60))
		require.NoError(t, err)
		assert.Equal(t, first, second, "format %s", f)
	}
}

func TestConvertFailures(t *testing.T) {
	conv := newConverter()

	t.Run("corrupt input", func(t *testing.T) {
		_, err := conv.Convert(bytes.NewReader([]byte("not an image at all")), entities.FormatPNG, nil)
		assert.ErrorIs(t, err, entities.ErrConversionFailed)
	})

	t.Run("truncated png", func(t *testing.T) {
		src := pngSource(t)
		_, err := conv.Convert(bytes.NewReader(src[:len(src)/2]), entities.FormatWebP, nil)
		assert.ErrorIs(t, err, entities.ErrConversionFailed)
	})

	t.Run("unsupported target", func(t *testing.T) {
		_, err := conv.Convert(bytes.NewReader(pngSource(t)), entities.Format("bmp"), nil)
		assert.ErrorIs(t, err, entities.ErrUnsupportedFormat)
	})
}

func TestEffectiveQuality(t *testing.T) {
	conv := newConverter()

	assert.Equal(t, 80, conv.EffectiveQuality(entities.FormatJPEG, nil))
	assert.Equal(t, 80, conv.EffectiveQuality(entities.FormatWebP, nil))
	assert.Equal(t, 35, conv.EffectiveQuality(entities.FormatJPEG, intPtr(35)))
	assert.Equal(t, 100, conv.EffectiveQuality(entities.FormatWebP, intPtr(250)))
	assert.Equal(t, 0, conv.EffectiveQuality(entities.FormatWebP, intPtr(-4)))

	// avif and png ignore the requested value
	assert.Equal(t, 50, conv.EffectiveQuality(entities.FormatAVIF, intPtr(10)))
	assert.Equal(t, 0, conv.EffectiveQuality(entities.FormatPNG, intPtr(10)))
}
