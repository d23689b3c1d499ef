package entities

import (
	"fmt"
)

// Format is a target image encoding.
type Format string

const (
	FormatWebP Format = "webp"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatAVIF Format = "avif"
)

// Formats lists the supported target formats in UI order.
var Formats = []Format{FormatWebP, FormatPNG, FormatJPEG, FormatAVIF}

func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
	return f, nil
}

func (f Format) Valid() bool {
	switch f {
	case FormatWebP, FormatPNG, FormatJPEG, FormatAVIF:
		return true
	}
	return false
}

// MIMEType returns image/<format>, which is also what the endpoint sends as Content-Type.
func (f Format) MIMEType() string { return "image/" + string(f) }

// SupportsQuality reports whether the encoder trades fidelity for size.
// Only jpeg and webp honor the quality knob.
func (f Format) SupportsQuality() bool {
	return f == FormatJPEG || f == FormatWebP
}

func (f Format) String() string { return string(f) }
