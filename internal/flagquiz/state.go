package flagquiz

import "fmt"

// State is the phase of a game.
type State int

const (
	QuestionAsked State = iota
	AnswerRevealed
	GameOver
)

var stateNames = [...]string{
	QuestionAsked:  "question_asked",
	AnswerRevealed: "answer_revealed",
	GameOver:       "game_over",
}

func (s State) String() string {
	if s.valid() {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func (s State) valid() bool {
	return s >= QuestionAsked && s <= GameOver
}

func (s State) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("marshaling state %d: %w", int(s), ErrInvalidSnapshot)
	}
	return []byte(stateNames[s]), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for i, name := range stateNames {
		if name == string(text) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown state %q: %w", text, ErrInvalidSnapshot)
}
