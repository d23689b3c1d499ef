package apidoc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	doc := Build("v1")

	item := doc.Paths.Find("/api/convert")
	require.NotNil(t, item)
	require.NotNil(t, item.Post)

	form := item.Post.RequestBody.Value.Content["multipart/form-data"].Schema.Value
	assert.ElementsMatch(t, []string{"file", "convertTo"}, form.Required)
	assert.ElementsMatch(t, []interface{}{"webp", "png", "jpeg", "avif"}, form.Properties["convertTo"].Value.Enum)

	for _, code := range []string{"200", "400", "413", "500"} {
		assert.NotNil(t, item.Post.Responses.Value(code), "response %s", code)
	}
	assert.Contains(t, item.Post.Responses.Value("200").Value.Content, "image/avif")
}

func TestBuildMarshals(t *testing.T) {
	b, err := json.Marshal(Build("v1"))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "3.0.3", out["openapi"])
	assert.Contains(t, out["paths"], "/api/convert")
}
