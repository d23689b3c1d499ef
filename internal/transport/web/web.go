package web

import (
	"embed"
	"net/http"
)

//go:embed static/index.html
var static embed.FS

// Handler serves the converter page. The page drives the batch in the
// browser: one POST /api/convert per file, then a client-side zip.
func Handler() http.Handler {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		panic(err)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(page)
	})
}
