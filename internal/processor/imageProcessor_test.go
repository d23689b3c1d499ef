package processor

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
	"golang.org/x/image/bmp"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 8), G: uint8(y * 10), B: 128, A: 255})
		}
	}
	return img
}

func loaded(t *testing.T) *ImageProcessor {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))

	p := &ImageProcessor{}
	require.NoError(t, p.Load(&buf))
	return p
}

func TestLoad(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		p := loaded(t)
		assert.Equal(t, image.Pt(32, 24), p.img.Bounds().Size())
	})

	t.Run("bmp", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, bmp.Encode(&buf, testImage()))
		p := &ImageProcessor{}
		require.NoError(t, p.Load(&buf))
		assert.Equal(t, 32, p.img.Bounds().Dx())
	})

	t.Run("garbage", func(t *testing.T) {
		p := &ImageProcessor{}
		assert.Error(t, p.Load(bytes.NewReader([]byte("definitely not an image"))))
	})
}

func TestEncodeWithoutLoad(t *testing.T) {
	p := &ImageProcessor{}
	_, err := p.GetPNG(png.DefaultCompression)
	assert.ErrorIs(t, err, ErrNotLoaded)
	_, err = p.GetJPEG(80)
	assert.ErrorIs(t, err, ErrNotLoaded)
	_, err = p.GetWEBP(80)
	assert.ErrorIs(t, err, ErrNotLoaded)
	_, err = p.GetAVIF(50, 8)
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestEncoders(t *testing.T) {
	p := loaded(t)

	t.Run("png", func(t *testing.T) {
		b, err := p.GetPNG(png.BestSpeed)
		require.NoError(t, err)
		img, err := png.Decode(bytes.NewReader(b))
		require.NoError(t, err)
		assert.Equal(t, 32, img.Bounds().Dx())
	})

	t.Run("jpeg", func(t *testing.T) {
		b, err := p.GetJPEG(80)
		require.NoError(t, err)
		img, err := jpeg.Decode(bytes.NewReader(b))
		require.NoError(t, err)
		assert.Equal(t, 24, img.Bounds().Dy())
	})

	t.Run("webp", func(t *testing.T) {
		b, err := p.GetWEBP(80)
		require.NoError(t, err)
		img, err := webp.Decode(bytes.NewReader(b))
		require.NoError(t, err)
		assert.Equal(t, 32, img.Bounds().Dx())
	})

	t.Run("avif", func(t *testing.T) {
		b, err := p.GetAVIF(50, 10)
		require.NoError(t, err)
		img, err := avif.Decode(bytes.NewReader(b))
		require.NoError(t, err)
		assert.Equal(t, 32, img.Bounds().Dx())
	})
}
