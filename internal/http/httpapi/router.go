package httpapi

import (
	"net/http"
	"time"

	"campaignbuilder/internal/http/handlers"
	appmw "campaignbuilder/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Options carries the transport settings of the router.
type Options struct {
	AllowedOrigins  []string
	RateLimitPerMin int
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(appmw.RequestID)
	if opts.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(
		appmw.Logger(app.Logger),
		middleware.Recoverer,
		appmw.CORS(opts.AllowedOrigins),
	)

	// Health & docs
	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)

	r.Group(func(r chi.Router) {
		r.Use(appmw.RateLimit(opts.RateLimitPerMin, time.Minute))
		r.Post("/gerar-html", app.GenerateHTML)
		r.Post("/atualizar-meta", app.PatchMeta)
	})

	r.Get("/baixar/{job_id}/{filename}", app.Download)

	return r
}
