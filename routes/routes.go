package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Dosada05/cricket-fixtures/handlers"
	"github.com/Dosada05/cricket-fixtures/middleware"
)

func SetupRoutes(
	router *chi.Mux,
	corsOrigins []string,
	fixtureHandler *handlers.FixtureHandler,
	standingsHandler *handlers.StandingsHandler,
	stageHandler *handlers.StageHandler,
) {
	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/tournaments/{tournamentID}", func(r chi.Router) {
		r.Route("/fixtures", func(r chi.Router) {
			r.Get("/", fixtureHandler.ListHandler)
			r.Post("/", fixtureHandler.CreateDraftHandler)
			r.Post("/generate", fixtureHandler.AutoGenerateHandler)
			r.Post("/publish", fixtureHandler.PublishHandler)
			r.Put("/{matchID}", fixtureHandler.UpdateDraftHandler)
			r.Delete("/{matchID}", fixtureHandler.DeleteDraftHandler)
		})

		r.Get("/standings", standingsHandler.GetHandler)

		r.Route("/stages/{stageID}", func(r chi.Router) {
			r.Post("/swiss-round", fixtureHandler.SwissRoundHandler)
			r.Get("/points-config", stageHandler.GetPointsConfigHandler)
			r.Put("/points-config", stageHandler.SetPointsConfigHandler)
		})
	})
}
