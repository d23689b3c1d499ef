package handler

import "github.com/trunov/imgconvert/internal/entities"

// ConvertParams is the parsed multipart form of POST /api/convert.
// Tag failures on "required"/"min" mean an invalid request, "oneof" an
// unsupported format.
type ConvertParams struct {
	Source     []byte `validate:"required,min=1"`
	SourceName string
	ConvertTo  string `validate:"required,oneof=webp png jpeg avif"`
	Quality    *int
}

func (p ConvertParams) Request() entities.ConversionRequest {
	return entities.ConversionRequest{
		Source:     p.Source,
		SourceName: p.SourceName,
		Format:     entities.Format(p.ConvertTo),
		Quality:    p.Quality,
	}
}

// Form field names, kept compatible with the browser client.
const (
	fieldFile       = "file"
	fieldConvertTo  = "convertTo"
	fieldQuality    = "compressionLevel"
	fieldQualityAlt = "quality"
)

// outputBasename names the attachment: converted.<format>.
const outputBasename = "converted"

// Messages shown to users, one per error category.
const (
	MsgInvalidRequest    = "File and conversion format are required"
	MsgUnsupportedFormat = "Unsupported format"
	MsgConversionFailed  = "Conversion failed. Please try again."
	MsgTooLarge          = "uploaded file exceeds maximum allowed size"
)
