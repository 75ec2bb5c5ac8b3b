package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"docportal/internal/handlers"
	"docportal/internal/middleware"
	"docportal/internal/websocket"
)

func New(
	sessions *middleware.Sessions,
	actionLimiter *middleware.RateLimiter,
	viewHandler *handlers.ViewHandler,
	wsHub *websocket.Hub,
	trustProxy bool,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	if trustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.RequestID)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(sessions.Middleware)

		r.Get("/", viewHandler.Index)
		r.Get("/state", viewHandler.State)
		r.Get("/ws", wsHub.HandleWebSocket)

		// ──── Triggers ────
		r.Route("/actions", func(r chi.Router) {
			r.Use(actionLimiter.Middleware)
			r.Post("/register", viewHandler.Register)
			r.Post("/login", viewHandler.Login)
			r.Post("/upload", viewHandler.Upload)
			r.Post("/search", viewHandler.Search)
		})
	})

	return r
}
