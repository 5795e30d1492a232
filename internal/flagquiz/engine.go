package flagquiz

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

const (
	// ChoicesPerRound is the number of flags shown each round.
	ChoicesPerRound = 3

	// DefaultTotalRounds is the number of rounds in a game.
	DefaultTotalRounds = 8

	MessageCorrect = "Correct"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidConfig   = errors.New("invalid engine configuration")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// Round is one question: three candidate flags, one of them correct.
type Round struct {
	Countries    [ChoicesPerRound]Country `json:"countries"`
	CorrectIndex int                      `json:"correctIndex"`
}

// Answer returns the country the player is asked to find.
func (r Round) Answer() Country {
	return r.Countries[r.CorrectIndex]
}

// Result is the verdict on the last evaluated round.
type Result struct {
	Round    int     `json:"round"`
	Selected int     `json:"selected"`
	Country  Country `json:"country"`
	Correct  bool    `json:"correct"`
	Message  string  `json:"message"`
}

// Engine runs one game at a time. It is not safe for concurrent use; the
// caller that owns it must serialize access.
type Engine struct {
	pool  []Country
	total int
	src   rand.Source
	rng   *rand.Rand

	state            State
	round            Round
	score            int
	roundNum         int
	result           *Result
	newGameRequested bool
}

type Option func(*Engine)

// WithPool replaces the default country catalog.
func WithPool(countries []Country) Option {
	return func(e *Engine) {
		e.pool = append([]Country(nil), countries...)
	}
}

func WithTotalRounds(n int) Option {
	return func(e *Engine) { e.total = n }
}

// WithSource sets the random source used for shuffling and picking the
// correct flag. A *rand.PCG source is also captured by Snapshot.
func WithSource(src rand.Source) Option {
	return func(e *Engine) { e.src = src }
}

// WithSeed is shorthand for WithSource(rand.NewPCG(seed, seed)).
func WithSeed(seed uint64) Option {
	return WithSource(rand.NewPCG(seed, seed))
}

// New returns an engine with a game already started.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		pool:  Countries(),
		total: DefaultTotalRounds,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := validatePool(e.pool); err != nil {
		return nil, err
	}
	if e.total < 1 {
		return nil, fmt.Errorf("total rounds %d: %w", e.total, ErrInvalidConfig)
	}
	if e.src == nil {
		e.src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	e.rng = rand.New(e.src)

	e.StartNewGame()
	return e, nil
}

func validatePool(pool []Country) error {
	if len(pool) < ChoicesPerRound {
		return fmt.Errorf("pool has %d countries, need %d: %w", len(pool), ChoicesPerRound, ErrInvalidConfig)
	}
	seen := make(map[Country]struct{}, len(pool))
	for _, c := range pool {
		if c == "" {
			return fmt.Errorf("empty country in pool: %w", ErrInvalidConfig)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("duplicate country %q in pool: %w", c, ErrInvalidConfig)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// StartNewGame resets score and round counter and asks the first question.
func (e *Engine) StartNewGame() {
	e.score = 0
	e.roundNum = 1
	e.result = nil
	e.newGameRequested = false
	e.askQuestion()
}

func (e *Engine) askQuestion() {
	e.state = QuestionAsked
	e.generateRound()
}

// generateRound permutes the pool and shows its first three countries.
func (e *Engine) generateRound() {
	e.rng.Shuffle(len(e.pool), func(i, j int) {
		e.pool[i], e.pool[j] = e.pool[j], e.pool[i]
	})
	copy(e.round.Countries[:], e.pool[:ChoicesPerRound])
	e.round.CorrectIndex = e.rng.IntN(ChoicesPerRound)
}

// SubmitAnswer handles a tap on flag index. What it does depends on the
// current state:
//
//   - QuestionAsked: the tap is evaluated. The game moves to AnswerRevealed,
//     or to GameOver after the final round.
//   - AnswerRevealed: the tap acknowledges the verdict and the next round
//     starts; index is not evaluated.
//   - GameOver: the tap asks for the final score and a new game.
//
// An index outside [0, ChoicesPerRound) fails with ErrInvalidInput in every
// state and leaves the engine unchanged.
func (e *Engine) SubmitAnswer(index int) (State, error) {
	if index < 0 || index >= ChoicesPerRound {
		return e.state, fmt.Errorf("flag index %d out of range [0,%d): %w", index, ChoicesPerRound, ErrInvalidInput)
	}

	switch e.state {
	case QuestionAsked:
		e.evaluate(index)
	case AnswerRevealed:
		e.roundNum++
		e.askQuestion()
	case GameOver:
		e.newGameRequested = true
	}
	return e.state, nil
}

func (e *Engine) evaluate(index int) {
	res := &Result{
		Round:    e.roundNum,
		Selected: index,
		Country:  e.round.Countries[index],
		Correct:  index == e.round.CorrectIndex,
	}
	if res.Correct {
		e.score++
		res.Message = MessageCorrect
	} else {
		res.Message = fmt.Sprintf("Wrong, that is the flag of %s", res.Country)
	}
	e.result = res

	if e.roundNum >= e.total {
		e.state = GameOver
		return
	}
	e.state = AnswerRevealed
}

func (e *Engine) State() State { return e.state }

func (e *Engine) Round() Round { return e.round }

// Prompt returns the country name the player must find.
func (e *Engine) Prompt() Country { return e.round.Answer() }

func (e *Engine) Score() int { return e.score }

// RoundNumber is the 1-based number of the current round.
func (e *Engine) RoundNumber() int { return e.roundNum }

func (e *Engine) TotalRounds() int { return e.total }

// Revealed reports whether the correct position of the current round may be
// shown to the player.
func (e *Engine) Revealed() bool { return e.state != QuestionAsked }

// LastResult returns the verdict on the most recently evaluated round of the
// current game.
func (e *Engine) LastResult() (Result, bool) {
	if e.result == nil {
		return Result{}, false
	}
	return *e.result, true
}

// Message is the text of the last verdict, empty before the first answer.
func (e *Engine) Message() string {
	if e.result == nil {
		return ""
	}
	return e.result.Message
}

// NewGameRequested reports whether the player tapped after the game ended,
// i.e. the final score should be shown with a new-game prompt.
func (e *Engine) NewGameRequested() bool { return e.newGameRequested }
