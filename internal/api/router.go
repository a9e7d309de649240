package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mins/twogether/internal/api/handlers"
	"github.com/mins/twogether/internal/api/middleware"
	"github.com/mins/twogether/internal/config"
	"github.com/mins/twogether/internal/service"
	"github.com/mins/twogether/internal/websocket"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	pairingHandler := handlers.NewPairingHandler(services.Pairing)
	coupleHandler := handlers.NewCoupleHandler(services.Couple, services.Auth)
	gameHandler := handlers.NewGameHandler(services.Game, services.Auth)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			// Pairing routes
			r.Route("/invites", func(r chi.Router) {
				r.Post("/", pairingHandler.GenerateCode)
				r.Get("/{code}", pairingHandler.ValidateCode)
				r.Post("/{code}/accept", pairingHandler.AcceptInvite)
			})

			// Couple routes
			r.Route("/couple", func(r chi.Router) {
				r.Get("/", coupleHandler.GetState)
				r.Post("/unpair", pairingHandler.Unpair)

				// Game routes
				r.Route("/games", func(r chi.Router) {
					r.Post("/daily", gameHandler.StartDaily)
					r.Post("/choice", gameHandler.StartChoice)
					r.Post("/{sessionId}/answer", gameHandler.SubmitAnswer)
					r.Get("/pending", gameHandler.GetPending)
					r.Get("/history", gameHandler.GetHistory)
				})
			})
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
