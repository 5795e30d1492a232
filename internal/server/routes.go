package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, games *Registry, broker *Broker, spaDir string) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Guess the Flag API", "/openapi.json", "/docs"))

	r.Get("/api/countries", handleCountries())
	r.Post("/api/games", handleCreateGame(games))

	r.Route("/api/games/{gameID}", func(r chi.Router) {
		r.Use(gameMiddleware())
		r.Get("/", handleGetGame(games))
		r.Delete("/", handleDeleteGame(games, broker))
		r.Post("/answer", handleAnswer(games, broker))
		r.Post("/new", handleNewGame(games, broker))
		r.Get("/events", handleEvents(games, broker))
		r.Get("/ws", handlePlayWS(logger, games, broker))
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
