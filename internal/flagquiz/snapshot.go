package flagquiz

import (
	"encoding"
	"fmt"
	"math/rand/v2"
)

// Snapshot is the serializable state of an Engine.
type Snapshot struct {
	Pool             []Country `json:"pool"`
	TotalRounds      int       `json:"totalRounds"`
	State            State     `json:"state"`
	Round            Round     `json:"round"`
	Score            int       `json:"score"`
	RoundNumber      int       `json:"roundNumber"`
	Result           *Result   `json:"result,omitempty"`
	NewGameRequested bool      `json:"newGameRequested"`
	// Source is the marshaled random source, if it supports marshaling.
	Source []byte `json:"source,omitempty"`
}

// Snapshot captures the engine state. The random source is included when it
// implements encoding.BinaryMarshaler, so a restored engine deals the same
// rounds the original would have.
func (e *Engine) Snapshot() (Snapshot, error) {
	s := Snapshot{
		Pool:             append([]Country(nil), e.pool...),
		TotalRounds:      e.total,
		State:            e.state,
		Round:            e.round,
		Score:            e.score,
		RoundNumber:      e.roundNum,
		NewGameRequested: e.newGameRequested,
	}
	if e.result != nil {
		r := *e.result
		s.Result = &r
	}
	if m, ok := e.src.(encoding.BinaryMarshaler); ok {
		b, err := m.MarshalBinary()
		if err != nil {
			return Snapshot{}, fmt.Errorf("marshaling random source: %w", err)
		}
		s.Source = b
	}
	return s, nil
}

// Restore rebuilds an engine from s. If s carries a source state it is loaded
// into a new PCG; otherwise src is used, or a randomly seeded PCG when src is
// nil.
func Restore(s Snapshot, src rand.Source) (*Engine, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	if len(s.Source) > 0 {
		pcg := &rand.PCG{}
		if err := pcg.UnmarshalBinary(s.Source); err != nil {
			return nil, fmt.Errorf("restoring random source: %w", ErrInvalidSnapshot)
		}
		src = pcg
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}

	e := &Engine{
		pool:             append([]Country(nil), s.Pool...),
		total:            s.TotalRounds,
		src:              src,
		rng:              rand.New(src),
		state:            s.State,
		round:            s.Round,
		score:            s.Score,
		roundNum:         s.RoundNumber,
		newGameRequested: s.NewGameRequested,
	}
	if s.Result != nil {
		r := *s.Result
		e.result = &r
	}
	return e, nil
}

func (s Snapshot) validate() error {
	if err := validatePool(s.Pool); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	switch {
	case s.TotalRounds < 1:
		return fmt.Errorf("total rounds %d: %w", s.TotalRounds, ErrInvalidSnapshot)
	case !s.State.valid():
		return fmt.Errorf("state %d: %w", int(s.State), ErrInvalidSnapshot)
	case s.RoundNumber < 1 || s.RoundNumber > s.TotalRounds:
		return fmt.Errorf("round %d of %d: %w", s.RoundNumber, s.TotalRounds, ErrInvalidSnapshot)
	case s.Score < 0 || s.Score > s.completedRounds():
		return fmt.Errorf("score %d after %d completed rounds: %w", s.Score, s.completedRounds(), ErrInvalidSnapshot)
	case s.Round.CorrectIndex < 0 || s.Round.CorrectIndex >= ChoicesPerRound:
		return fmt.Errorf("correct index %d: %w", s.Round.CorrectIndex, ErrInvalidSnapshot)
	case s.NewGameRequested && s.State != GameOver:
		return fmt.Errorf("new game requested in state %s: %w", s.State, ErrInvalidSnapshot)
	}
	for _, c := range s.Round.Countries {
		if c == "" {
			return fmt.Errorf("round has empty country: %w", ErrInvalidSnapshot)
		}
	}
	return s.validateResult()
}

// completedRounds is the number of rounds already evaluated. The current
// round counts once it has been answered.
func (s Snapshot) completedRounds() int {
	if s.State == QuestionAsked {
		return s.RoundNumber - 1
	}
	return s.RoundNumber
}

// validateResult checks that the kept verdict belongs to the last evaluated
// round. Every round but the first of a game is preceded by one.
func (s Snapshot) validateResult() error {
	last := s.completedRounds()
	if s.Result == nil {
		if last > 0 {
			return fmt.Errorf("missing result for round %d: %w", last, ErrInvalidSnapshot)
		}
		return nil
	}

	r := s.Result
	switch {
	case last == 0:
		return fmt.Errorf("result before any round was answered: %w", ErrInvalidSnapshot)
	case r.Round != last:
		return fmt.Errorf("result for round %d, last answered round is %d: %w", r.Round, last, ErrInvalidSnapshot)
	case r.Selected < 0 || r.Selected >= ChoicesPerRound:
		return fmt.Errorf("result selected index %d: %w", r.Selected, ErrInvalidSnapshot)
	case r.Country == "":
		return fmt.Errorf("result has empty country: %w", ErrInvalidSnapshot)
	}

	if s.State != QuestionAsked {
		if r.Country != s.Round.Countries[r.Selected] || r.Correct != (r.Selected == s.Round.CorrectIndex) {
			return fmt.Errorf("result does not match round %d: %w", r.Round, ErrInvalidSnapshot)
		}
	}
	return nil
}
