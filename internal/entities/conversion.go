package entities

// ConversionRequest is one image to convert.
type ConversionRequest struct {
	Source     []byte
	SourceName string
	Format     Format
	// Quality is the requested 0-100 quality; nil means the codec default.
	Quality *int
}

// ConversionResult holds either the encoded bytes or the failure, never both.
type ConversionResult struct {
	Data     []byte
	MIMEType string
	Err      error
}

func (r ConversionResult) OK() bool { return r.Err == nil }

func Ok(data []byte, format Format) ConversionResult {
	return ConversionResult{Data: data, MIMEType: format.MIMEType()}
}

func Failed(err error) ConversionResult {
	return ConversionResult{Err: err}
}
