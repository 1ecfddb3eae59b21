package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/poolside/bracket-pool/handlers"
	"github.com/poolside/bracket-pool/middleware"
)

// SetupRoutes wires the pool API. Reads are public; pick mutations require
// a token; winner declarations, seeding, round edits, renames, and the
// audit log are admin only.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	gameHandler *handlers.GameHandler,
	pickHandler *handlers.PickHandler,
	winnerHandler *handlers.WinnerHandler,
	standingsHandler *handlers.StandingsHandler,
	adminHandler *handlers.AdminHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)

	router.Route("/pools/{poolID}", func(r chi.Router) {
		r.Get("/", gameHandler.GetPool)
		r.Get("/games", gameHandler.ListGames)
		r.Get("/potential-winners", winnerHandler.PotentialWinners)
		r.Get("/standings", standingsHandler.Standings)
		r.Get("/users/{userID}/bracket", pickHandler.UserBracket)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Get("/picks/options", pickHandler.PickOptions)
			r.Put("/picks", pickHandler.SavePicks)
			r.Post("/picks/autofill", pickHandler.AutoFill)
			r.Delete("/picks", pickHandler.ClearPicks)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireAdmin)

			r.Post("/games", gameHandler.SeedBracket)
			r.Post("/winners", winnerHandler.SetWinners)
			r.Put("/rounds", standingsHandler.UpdateRoundPoints)
			r.Get("/logs", adminHandler.Logs)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.RequireAdmin)

		r.Put("/teams/{teamID}", adminHandler.RenameTeam)
		r.Put("/regions/{regionID}", adminHandler.RenameRegion)
	})

	router.Get("/ws/pools/{poolID}", webSocketHandler.ServeWs)
}
