package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.opentelemetry.io/otel"

	"github.com/lingua-labs/lingua-api/internal/api"
	apiMiddleware "github.com/lingua-labs/lingua-api/internal/api/middleware"
	"github.com/lingua-labs/lingua-api/internal/domain"
	"github.com/lingua-labs/lingua-api/internal/observability"
)

// setupRouter creates the router with all middleware and routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(observability.SentryMiddleware())
	r.Use(observability.TracingMiddleware(otel.GetTracerProvider()))
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(app.metrics.Middleware)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: app.config.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"Content-Disposition"},
	}).Handler)

	maxUpload := app.config.Server.MaxUploadBytes()
	authHandler := api.NewAuthHandler(app.authService, app.logger)
	languageHandler := api.NewLanguageHandler(app.languageService, maxUpload, app.logger)
	lessonHandler := api.NewLessonHandler(app.lessonService, maxUpload, app.logger)

	authn := apiMiddleware.NewAuthMiddleware(app.jwtService)
	adminOnly := chi.Chain(authn.Authenticate, authn.RequireRole(domain.RoleAdmin))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.With(authn.Authenticate).Get("/profile", authHandler.Profile)
	})

	r.Route("/languages", func(r chi.Router) {
		r.Get("/", languageHandler.List)
		r.With(adminOnly...).Get("/stats", languageHandler.Stats)
		r.Get("/{id}", languageHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly...)
			r.Post("/", languageHandler.Create)
			r.Patch("/{id}", languageHandler.Update)
			r.Delete("/{id}", languageHandler.Delete)
		})
	})

	r.Route("/lessons", func(r chi.Router) {
		r.Get("/", lessonHandler.List)
		r.With(adminOnly...).Get("/stats", lessonHandler.Stats)
		r.With(adminOnly...).Get("/export", lessonHandler.Export)
		r.Get("/language/{languageId}", lessonHandler.ByLanguage)
		r.With(authn.Authenticate).Get("/{id}", lessonHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly...)
			r.Post("/", lessonHandler.Create)
			r.Patch("/{id}", lessonHandler.Update)
			r.Delete("/{id}", lessonHandler.Delete)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})
	r.Handle("/metrics", observability.Handler(app.registry))

	return r
}
