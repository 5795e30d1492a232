package server

import (
	"encoding/json"
	"sync"
)

// Event types published on a game's stream.
const (
	EventSnapshot         = "snapshot"
	EventRoundStarted     = "round_started"
	EventAnswerRevealed   = "answer_revealed"
	EventGameOver         = "game_over"
	EventNewGameRequested = "new_game_requested"
	EventGameDeleted      = "game_deleted"
)

// GameEvent is the payload published to game subscribers.
type GameEvent struct {
	Type string    `json:"type"`
	Game *GameView `json:"game,omitempty"`
}

// Broker is an in-process pub/sub for game events, keyed by game ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the given game.
func (b *Broker) Subscribe(gameID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[gameID] == nil {
		b.subs[gameID] = make(map[chan []byte]struct{})
	}
	b.subs[gameID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the game's subscribers.
func (b *Broker) Unsubscribe(gameID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[gameID], ch)
	if len(b.subs[gameID]) == 0 {
		delete(b.subs, gameID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given game.
func (b *Broker) Publish(gameID string, event GameEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[gameID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

// Close ends every subscription to the given game. Events already queued
// are still delivered before the channel reports closed.
func (b *Broker) Close(gameID string) {
	b.mu.Lock()
	for ch := range b.subs[gameID] {
		close(ch)
	}
	delete(b.subs, gameID)
	b.mu.Unlock()
}

// Subscribers is the number of open subscriptions across all games.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, subs := range b.subs {
		n += len(subs)
	}
	return n
}
