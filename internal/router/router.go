package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vederko-p/RecService/internal/auth"
	"github.com/vederko-p/RecService/internal/handler"
)

func Setup(h *handler.Handler, verifier *auth.TokenVerifier) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Health stays outside the authenticated group.
	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(verifier.Middleware)
		r.Get("/reco/{modelName}/{userID}", h.GetReco)
	})

	return r
}
