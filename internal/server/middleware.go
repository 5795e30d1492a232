package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ctxKey int

const (
	ctxKeyGameID ctxKey = iota
)

// gameMiddleware validates the {gameID} URL parameter. Game IDs are UUIDs,
// so anything else is rejected before the store is consulted.
func gameMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "gameID"))
			if err != nil {
				writeError(w, http.StatusNotFound, "game not found")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyGameID, id.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func gameID(r *http.Request) string {
	return r.Context().Value(ctxKeyGameID).(string)
}
