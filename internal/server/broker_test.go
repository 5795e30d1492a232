package server

import (
	"encoding/json"
	"testing"

	"github.com/playperu/flagquiz/internal/flagquiz"
)

func TestBroker(t *testing.T) {
	b := NewBroker()
	a1 := b.Subscribe("a")
	a2 := b.Subscribe("a")
	other := b.Subscribe("b")

	if b.Subscribers() != 3 {
		t.Fatalf("subscribers = %d, want 3", b.Subscribers())
	}

	b.Publish("a", GameEvent{Type: EventGameOver})

	for i, ch := range []chan []byte{a1, a2} {
		select {
		case data := <-ch:
			var ev GameEvent
			if err := json.Unmarshal(data, &ev); err != nil || ev.Type != EventGameOver {
				t.Errorf("subscriber %d got %s (%v)", i, data, err)
			}
		default:
			t.Errorf("subscriber %d got nothing", i)
		}
	}
	select {
	case data := <-other:
		t.Errorf("other game received %s", data)
	default:
	}

	b.Unsubscribe("a", a1)
	b.Unsubscribe("a", a2)
	b.Unsubscribe("b", other)
	if b.Subscribers() != 0 {
		t.Errorf("subscribers = %d after unsubscribe", b.Subscribers())
	}
}

func TestBrokerDropsWhenFull(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("a")

	for i := 0; i < cap(ch)+5; i++ {
		b.Publish("a", GameEvent{Type: EventRoundStarted})
	}
	if len(ch) != cap(ch) {
		t.Errorf("buffered %d, want %d", len(ch), cap(ch))
	}
}

func TestBrokerClose(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("a")
	other := b.Subscribe("b")

	b.Publish("a", GameEvent{Type: EventGameDeleted})
	b.Close("a")

	if _, ok := <-ch; !ok {
		t.Fatal("queued event lost on close")
	}
	if _, ok := <-ch; ok {
		t.Error("channel still open after close")
	}
	if b.Subscribers() != 1 {
		t.Errorf("subscribers = %d, want 1", b.Subscribers())
	}

	// Unsubscribing after close and publishing to a closed game are no-ops.
	b.Unsubscribe("a", ch)
	b.Publish("a", GameEvent{Type: EventRoundStarted})
	b.Unsubscribe("b", other)
}

func TestEventFor(t *testing.T) {
	tests := []struct {
		before flagquiz.State
		after  flagquiz.State
		want   string
	}{
		{flagquiz.QuestionAsked, flagquiz.AnswerRevealed, EventAnswerRevealed},
		{flagquiz.AnswerRevealed, flagquiz.QuestionAsked, EventRoundStarted},
		{flagquiz.QuestionAsked, flagquiz.GameOver, EventGameOver},
		{flagquiz.GameOver, flagquiz.GameOver, EventNewGameRequested},
	}

	for _, tt := range tests {
		if got := eventFor(tt.before, GameView{State: tt.after.String()}); got != tt.want {
			t.Errorf("%s -> %s: got %q, want %q", tt.before, tt.after, got, tt.want)
		}
	}
}
