package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"luckywheel/pkg/httpx/reply"
	"luckywheel/pkg/logx"
	"luckywheel/pkg/middlewarex"
)

type Options struct {
	AuthSecret     []byte
	AdminToken     string
	AllowedOrigins []string
	LogFieldMaxLen int
}

// Handler роутер со всеми middleware.
func (s Server) Handler(opts Options) http.Handler {
	masker := logx.NewSensitiveDataMasker()

	r := chi.NewRouter()

	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Admin-Token", "X-Trace-Id"},
			ExposedHeaders:   []string{"X-Trace-Id"},
			AllowCredentials: false,
			MaxAge:           300, //nolint:mnd
		}),
		middlewarex.RequestLogging(masker, opts.LogFieldMaxLen),
		middlewarex.ResponseLogging(masker, opts.LogFieldMaxLen),
	)

	s.RegisterRoutes(r, opts)

	return r
}

func (s Server) RegisterRoutes(r chi.Router, opts Options) {
	r.Route("/v1", func(r chi.Router) {
		// unauthorized zone
		r.Get("/wheel/catalog", handler(s.getV1WheelCatalog))

		r.Group(func(r chi.Router) {
			r.Use(middlewarex.Auth(opts.AuthSecret))

			r.Get("/wheel", handler(s.getV1Wheel))
			r.Post("/wheel/spin", handler(s.postV1WheelSpin))
			r.Get("/wheel/events", handler(s.getV1WheelEvents))
			r.Get("/wallet", handler(s.getV1Wallet))
		})

		r.Group(func(r chi.Router) {
			r.Use(middlewarex.AdminToken(opts.AdminToken))

			r.Post("/admin/wheel/{userID}/reset", handler(s.postV1AdminWheelReset))
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
