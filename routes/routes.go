package routes

import (
	"github.com/Samat21/unileague/handlers"
	"github.com/Samat21/unileague/middleware"
	"github.com/Samat21/unileague/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	authHandler *handlers.AuthHandler,
	teamHandler *handlers.TeamHandler,
	playerHandler *handlers.PlayerHandler,
	matchHandler *handlers.MatchHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	adminHandler *handlers.AdminHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	// Публичные чтения: таблица, матчи, команды, игроки.
	router.Get("/leaderboard", leaderboardHandler.Get)
	router.Get("/ws/leaderboard", webSocketHandler.ServeLeaderboard)
	router.Get("/ws/matches/{id}", webSocketHandler.ServeMatch)

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.List)
		r.Get("/{id}", teamHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin))

			r.Post("/", teamHandler.Create)
			r.Patch("/{id}", teamHandler.Update)
			r.Delete("/{id}", teamHandler.Delete)
			r.Post("/{id}/crest", teamHandler.UploadCrest)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/", playerHandler.List)
		r.Get("/{id}", playerHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin))

			r.Post("/assign", playerHandler.Assign)
			r.Delete("/{id}", playerHandler.Delete)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/", matchHandler.List)
		r.Get("/{id}", matchHandler.Get)
		r.Get("/{id}/goals", matchHandler.ListGoals)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin))

			r.Post("/", matchHandler.Create)
			r.Patch("/{id}", matchHandler.Update)
			r.Post("/{id}/start", matchHandler.Start)
			r.Post("/{id}/end", matchHandler.End)
			r.Post("/{id}/score", matchHandler.UpdateScore)
			r.Post("/{id}/goals", matchHandler.RecordGoal)
			r.Delete("/{id}", matchHandler.Delete)
		})
	})

	router.Route("/admin", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			// Заявку может подать любой аутентифицированный пользователь.
			r.Post("/request", adminHandler.RequestAccess)
			r.Get("/request", adminHandler.GetOwnRequest)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin))

			r.Get("/requests", adminHandler.ListRequests)
			r.Post("/requests/{id}/approve", adminHandler.Approve)
			r.Post("/requests/{id}/reject", adminHandler.Reject)
		})
	})
}
