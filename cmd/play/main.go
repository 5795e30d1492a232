// Command play runs the flag quiz in a terminal.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/playperu/flagquiz/internal/flagquiz"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	fs.SetOutput(stdout)
	rounds := fs.Int("rounds", flagquiz.DefaultTotalRounds, "rounds per game")
	seed := fs.Uint64("seed", 0, "deal reproducible rounds when non-zero")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := []flagquiz.Option{flagquiz.WithTotalRounds(*rounds)}
	if *seed != 0 {
		opts = append(opts, flagquiz.WithSeed(*seed))
	}
	e, err := flagquiz.New(opts...)
	if err != nil {
		return fmt.Errorf("starting game: %w", err)
	}

	return newPlayer(e, stdin, stdout).loop()
}

var errQuit = errors.New("quit")

type player struct {
	e   *flagquiz.Engine
	in  *bufio.Scanner
	out io.Writer
}

func newPlayer(e *flagquiz.Engine, in io.Reader, out io.Writer) *player {
	return &player{e: e, in: bufio.NewScanner(in), out: out}
}

func (p *player) loop() error {
	fmt.Fprintln(p.out, "Guess the Flag")
	for {
		err := p.step()
		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out, "Bye.")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (p *player) step() error {
	switch p.e.State() {
	case flagquiz.QuestionAsked:
		return p.ask()
	case flagquiz.AnswerRevealed:
		p.reveal()
		fmt.Fprintf(p.out, "Your score is %d. Press enter to continue.\n", p.e.Score())
		if _, err := p.read(); err != nil {
			return err
		}
		_, err := p.e.SubmitAnswer(0)
		return err
	default:
		return p.finish()
	}
}

func (p *player) ask() error {
	fmt.Fprintf(p.out, "\nRound %d of %d. Tap the flag of %s\n", p.e.RoundNumber(), p.e.TotalRounds(), p.e.Prompt())
	for i, c := range p.e.Round().Countries {
		desc := string(c)
		if f, ok := flagquiz.LookupFlag(c); ok {
			desc = f.Description
		}
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, desc)
	}

	for {
		line, err := p.read()
		if err != nil {
			return err
		}
		n, convErr := strconv.Atoi(line)
		if convErr == nil {
			_, err = p.e.SubmitAnswer(n - 1)
		}
		if convErr != nil || errors.Is(err, flagquiz.ErrInvalidInput) {
			fmt.Fprintf(p.out, "Pick 1 to %d.\n", flagquiz.ChoicesPerRound)
			continue
		}
		return err
	}
}

func (p *player) reveal() {
	fmt.Fprintln(p.out, p.e.Message())
}

func (p *player) finish() error {
	if !p.e.NewGameRequested() {
		p.reveal()
		fmt.Fprintln(p.out, "Press enter for your final score.")
		if _, err := p.read(); err != nil {
			return err
		}
		_, err := p.e.SubmitAnswer(0)
		return err
	}

	fmt.Fprintf(p.out, "Final Score\nYour final score is %d of %d. New game? [y/n]\n", p.e.Score(), p.e.TotalRounds())
	line, err := p.read()
	if err != nil {
		return err
	}
	if strings.HasPrefix(strings.ToLower(line), "y") {
		p.e.StartNewGame()
		return nil
	}
	return errQuit
}

// read returns the next trimmed input line. "q" quits from any prompt.
func (p *player) read() (string, error) {
	fmt.Fprint(p.out, "> ")
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	line := strings.TrimSpace(p.in.Text())
	if line == "q" {
		return "", errQuit
	}
	return line, nil
}
