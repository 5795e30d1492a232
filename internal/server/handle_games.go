package server

import (
	"errors"
	"net/http"
)

type CreateGameResponse struct {
	Game GameView `json:"game"`
}

func handleCreateGame(games *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := games.Create(r.Context())
		if err != nil {
			writeGameError(w, err)
			return
		}
		w.Header().Set("Location", "/api/games/"+view.ID)
		writeJSON(w, http.StatusCreated, CreateGameResponse{Game: view})
	}
}

func handleGetGame(games *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := games.View(r.Context(), gameID(r))
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func handleNewGame(games *Registry, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := startNewGame(r.Context(), games, broker, gameID(r))
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func handleDeleteGame(games *Registry, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := gameID(r)
		if err := games.Delete(r.Context(), id); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "game not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		broker.Publish(id, GameEvent{Type: EventGameDeleted})
		broker.Close(id)
		w.WriteHeader(http.StatusNoContent)
	}
}
