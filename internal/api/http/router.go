package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/examix/examix/internal/auth"
	"github.com/examix/examix/internal/config"
)

// NewRouter wires the public API surface. The daemon and the CLI "serve"
// command both mount this.
func NewRouter(cfg config.Config, svc *auth.AuthService, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Post("/auth/login", auth.LoginHandler(svc))

	r.Group(func(r chi.Router) {
		r.Use(auth.JWTMiddleware(svc))
		r.Post("/exams/validate", ValidateExamHandler(deps))
		r.Post("/exams/generate", GenerateHandler(deps))
		r.Get("/batches", ListBatchesHandler(deps))
		r.Get("/batches/{batchID}", GetBatchHandler(deps))
		r.Get("/batches/{batchID}/bundle", DownloadBundleHandler(deps))
		r.Get("/prefs", GetPrefsHandler(deps))
		r.Put("/prefs", PutPrefsHandler(deps))
	})

	return r
}
