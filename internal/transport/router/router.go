package router

import (
	"log/slog"
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/trunov/imgconvert/internal/transport/handler"
	"github.com/trunov/imgconvert/internal/transport/web"
)

func NewRouter(h *handler.Handler, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	// sentry re-panics so recoverJSON still answers with a JSON 500
	sentryHandler := sentryhttp.New(sentryhttp.Options{Repanic: true})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(recoverJSON(logger))
	r.Use(sentryHandler.Handle)

	r.Method(http.MethodGet, "/", web.Handler())
	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/convert", h.Convert)
		r.Get("/openapi.json", h.OpenAPI)
	})

	return r
}
