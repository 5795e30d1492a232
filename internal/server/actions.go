package server

import (
	"context"

	"github.com/playperu/flagquiz/internal/flagquiz"
)

// submitAnswer applies a flag tap to game id and publishes the transition.
func submitAnswer(ctx context.Context, games *Registry, broker *Broker, id string, index int) (GameView, error) {
	var before flagquiz.State
	view, err := games.Update(ctx, id, func(e *flagquiz.Engine) error {
		before = e.State()
		_, err := e.SubmitAnswer(index)
		return err
	})
	if err != nil {
		return GameView{}, err
	}

	broker.Publish(id, GameEvent{Type: eventFor(before, view), Game: &view})
	return view, nil
}

// startNewGame resets game id and publishes the first round.
func startNewGame(ctx context.Context, games *Registry, broker *Broker, id string) (GameView, error) {
	view, err := games.Update(ctx, id, func(e *flagquiz.Engine) error {
		e.StartNewGame()
		return nil
	})
	if err != nil {
		return GameView{}, err
	}

	broker.Publish(id, GameEvent{Type: EventRoundStarted, Game: &view})
	return view, nil
}

func eventFor(before flagquiz.State, after GameView) string {
	switch after.State {
	case flagquiz.QuestionAsked.String():
		return EventRoundStarted
	case flagquiz.AnswerRevealed.String():
		return EventAnswerRevealed
	}
	if before == flagquiz.GameOver {
		return EventNewGameRequested
	}
	return EventGameOver
}
