package entities

import "errors"

var (
	// ErrInvalidRequest means the file or the target format is missing.
	ErrInvalidRequest = errors.New("file and conversion format are required")
	// ErrUnsupportedFormat means the target format is not one of Formats.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrConversionFailed covers every decode or encode failure.
	ErrConversionFailed = errors.New("conversion failed")
)
