package apidoc

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/trunov/imgconvert/internal/entities"
)

// Build describes POST /api/convert as an OpenAPI 3 document.
func Build(version string) *openapi3.T {
	formats := make([]interface{}, 0, len(entities.Formats))
	imageContent := make(map[string]*openapi3.MediaType, len(entities.Formats))
	for _, f := range entities.Formats {
		formats = append(formats, f.String())
		imageContent[f.MIMEType()] = &openapi3.MediaType{
			Schema: &openapi3.SchemaRef{Value: &openapi3.Schema{
				Type:   &openapi3.Types{"string"},
				Format: "binary",
			}},
		}
	}

	minQ, maxQ := 0.0, 100.0
	form := &openapi3.Schema{
		Type:     &openapi3.Types{"object"},
		Required: []string{"file", "convertTo"},
		Properties: map[string]*openapi3.SchemaRef{
			"file": {Value: &openapi3.Schema{
				Type:   &openapi3.Types{"string"},
				Format: "binary",
			}},
			"convertTo": {Value: &openapi3.Schema{
				Type: &openapi3.Types{"string"},
				Enum: formats,
			}},
			"compressionLevel": {Value: &openapi3.Schema{
				Type:        &openapi3.Types{"integer"},
				Min:         &minQ,
				Max:         &maxQ,
				Description: "Quality percent. Honored for jpeg and webp only.",
			}},
		},
	}

	errorContent := map[string]*openapi3.MediaType{
		"application/json": {
			Schema: &openapi3.SchemaRef{Value: &openapi3.Schema{
				Type: &openapi3.Types{"object"},
				Properties: map[string]*openapi3.SchemaRef{
					"error": {Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
				},
			}},
		},
	}

	okDesc := "Converted image"
	badDesc := "File and conversion format are required, or unsupported format"
	largeDesc := "Upload too large"
	failDesc := "Conversion failed"

	op := &openapi3.Operation{
		OperationID: "convertImage",
		Summary:     "Convert one image to webp, png, jpeg or avif",
		RequestBody: &openapi3.RequestBodyRef{Value: &openapi3.RequestBody{
			Required: true,
			Content: map[string]*openapi3.MediaType{
				"multipart/form-data": {Schema: &openapi3.SchemaRef{Value: form}},
			},
		}},
		Responses: &openapi3.Responses{},
	}
	op.Responses.Set("200", &openapi3.ResponseRef{Value: &openapi3.Response{
		Description: &okDesc,
		Headers: openapi3.Headers{
			"Content-Disposition": &openapi3.HeaderRef{Value: &openapi3.Header{Parameter: openapi3.Parameter{
				Schema: &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
			}}},
		},
		Content: imageContent,
	}})
	op.Responses.Set("400", &openapi3.ResponseRef{Value: &openapi3.Response{Description: &badDesc, Content: errorContent}})
	op.Responses.Set("413", &openapi3.ResponseRef{Value: &openapi3.Response{Description: &largeDesc, Content: errorContent}})
	op.Responses.Set("500", &openapi3.ResponseRef{Value: &openapi3.Response{Description: &failDesc, Content: errorContent}})

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "imgconvert",
			Version:     version,
			Description: "Stateless image format conversion.",
		},
		Paths: &openapi3.Paths{},
	}
	doc.Paths.Set("/api/convert", &openapi3.PathItem{Post: op})

	return doc
}
