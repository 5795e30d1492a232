package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/playperu/flagquiz/internal/flagquiz"
)

// Actions accepted on the play socket.
const (
	ActionAnswer  = "answer"
	ActionNewGame = "new_game"
	ActionState   = "state"
)

type PlayMessage struct {
	Action string `json:"action"`
	Index  *int   `json:"index,omitempty"`
}

type PlayReply struct {
	Type  string    `json:"type"`
	Game  *GameView `json:"game,omitempty"`
	Error string    `json:"error,omitempty"`
}

// handlePlayWS drives one game over a WebSocket: every message is a tap or a
// new-game request and is answered with the resulting view.
func handlePlayWS(logger *slog.Logger, games *Registry, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := gameID(r)
		if _, err := games.View(r.Context(), id); err != nil {
			writeGameError(w, err)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Minute)
		defer cancel()

		for {
			var msg PlayMessage
			if err := wsjson.Read(ctx, conn, &msg); err != nil {
				logger.Debug("websocket read ended", "game", id, "error", err)
				return
			}

			view, actErr := playAction(ctx, games, broker, id, msg)
			reply := PlayReply{Type: "state", Game: &view}
			if actErr != nil {
				reply = PlayReply{Type: "error", Error: playError(actErr)}
			}

			if err := wsjson.Write(ctx, conn, reply); err != nil {
				logger.Debug("websocket write failed", "game", id, "error", err)
				return
			}
			if errors.Is(actErr, ErrNotFound) {
				conn.Close(websocket.StatusNormalClosure, "game not found")
				return
			}
		}
	}
}

var (
	errUnknownAction = errors.New("unknown action")
	errMissingIndex  = errors.New("index is required")
)

func playAction(ctx context.Context, games *Registry, broker *Broker, id string, msg PlayMessage) (GameView, error) {
	switch msg.Action {
	case ActionAnswer:
		if msg.Index == nil {
			return GameView{}, errMissingIndex
		}
		return submitAnswer(ctx, games, broker, id, *msg.Index)
	case ActionNewGame:
		return startNewGame(ctx, games, broker, id)
	case ActionState:
		return games.View(ctx, id)
	default:
		return GameView{}, errUnknownAction
	}
}

func playError(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "game not found"
	case errors.Is(err, errUnknownAction),
		errors.Is(err, errMissingIndex),
		errors.Is(err, flagquiz.ErrInvalidInput):
		return err.Error()
	}
	return "internal error"
}
