package processor

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gen2brain/avif"

	// Extra source formats accepted by Load.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

var ErrNotLoaded = errors.New("no image loaded")

// Load images, then encode them into one of the target codecs
type ImageProcessor struct {
	img image.Image
}

// Load decodes any registered source format and applies EXIF orientation.
func (i *ImageProcessor) Load(r io.Reader) error {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return err
	}
	i.img = img
	return nil
}

func (i *ImageProcessor) GetPNG(level png.CompressionLevel) ([]byte, error) {
	if i.img == nil {
		return nil, ErrNotLoaded
	}
	buf := new(bytes.Buffer)
	err := imaging.Encode(buf, i.img, imaging.PNG, imaging.PNGCompressionLevel(level))
	return buf.Bytes(), err
}

func (i *ImageProcessor) GetJPEG(quality int) ([]byte, error) {
	if i.img == nil {
		return nil, ErrNotLoaded
	}
	buf := new(bytes.Buffer)
	err := imaging.Encode(buf, i.img, imaging.JPEG, imaging.JPEGQuality(quality))
	return buf.Bytes(), err
}

func (i *ImageProcessor) GetWEBP(quality int) ([]byte, error) {
	if i.img == nil {
		return nil, ErrNotLoaded
	}
	buf := new(bytes.Buffer)
	err := webp.Encode(buf, i.img, &webp.Options{
		Lossless: false,
		Quality:  float32(quality),
		Exact:    true,
	})
	return buf.Bytes(), err
}

func (i *ImageProcessor) GetAVIF(quality, speed int) ([]byte, error) {
	if i.img == nil {
		return nil, ErrNotLoaded
	}
	buf := new(bytes.Buffer)
	err := avif.Encode(buf, i.img, avif.Options{
		Quality:      quality,
		QualityAlpha: quality,
		Speed:        speed,
	})
	return buf.Bytes(), err
}
