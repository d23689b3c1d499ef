package converter

import (
	"fmt"
	"image/png"
	"io"

	"github.com/trunov/imgconvert/internal/config"
	"github.com/trunov/imgconvert/internal/entities"
	"github.com/trunov/imgconvert/internal/processor"
)

// Converter re-encodes a decodable image into a target format.
//
// Quality policy: jpeg and webp honor the requested quality, avif and png
// always use their configured defaults.
type Converter struct {
	cfg config.ConversionConfig
}

func New(cfg config.ConversionConfig) *Converter {
	return &Converter{cfg: cfg}
}

// EffectiveQuality returns the quality the encoder will actually use.
// For png it is always 0 because the png encoder is lossless.
func (c *Converter) EffectiveQuality(format entities.Format, quality *int) int {
	switch format {
	case entities.FormatJPEG:
		return pick(quality, c.cfg.JPEGQuality)
	case entities.FormatWebP:
		return pick(quality, c.cfg.WebPQuality)
	case entities.FormatAVIF:
		return c.cfg.AVIFQuality
	default:
		return 0
	}
}

func (c *Converter) Convert(reader io.Reader, format entities.Format, quality *int) ([]byte, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %q", entities.ErrUnsupportedFormat, format)
	}

	imgp := &processor.ImageProcessor{}
	if err := imgp.Load(reader); err != nil {
		return nil, fmt.Errorf("%w: error decoding image: %w", entities.ErrConversionFailed, err)
	}

	q := c.EffectiveQuality(format, quality)

	var (
		out []byte
		err error
	)
	switch format {
	case entities.FormatJPEG:
		out, err = imgp.GetJPEG(q)
	case entities.FormatWebP:
		out, err = imgp.GetWEBP(q)
	case entities.FormatAVIF:
		out, err = imgp.GetAVIF(q, c.cfg.AVIFSpeed)
	case entities.FormatPNG:
		out, err = imgp.GetPNG(png.CompressionLevel(c.cfg.PNGCompression))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: error encoding to %s: %w", entities.ErrConversionFailed, format, err)
	}

	return out, nil
}

func pick(quality *int, def int) int {
	if quality == nil {
		return def
	}
	return Clamp(*quality)
}

// Clamp limits a quality value to 0..100.
func Clamp(q int) int {
	if q < 0 {
		return 0
	}
	if q > 100 {
		return 100
	}
	return q
}
