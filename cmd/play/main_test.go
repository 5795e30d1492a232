package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/playperu/flagquiz/internal/flagquiz"
)

func newTestPlayer(t *testing.T, input string, rounds int) (*player, *bytes.Buffer) {
	t.Helper()
	e, err := flagquiz.New(flagquiz.WithTotalRounds(rounds), flagquiz.WithSeed(7))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var out bytes.Buffer
	return newPlayer(e, strings.NewReader(input), &out), &out
}

func TestPlayerQuitsOnQ(t *testing.T) {
	p, out := newTestPlayer(t, "q\n", 2)
	if err := p.loop(); err != nil {
		t.Fatalf("loop: %v", err)
	}
	if !strings.Contains(out.String(), "Round 1 of 2") {
		t.Errorf("output missing round header:\n%s", out)
	}
	if !strings.HasSuffix(out.String(), "Bye.\n") {
		t.Errorf("output should end with Bye.:\n%s", out)
	}
}

func TestPlayerRejectsBadInput(t *testing.T) {
	p, out := newTestPlayer(t, "x\n4\n0\nq\n", 2)
	if err := p.loop(); err != nil {
		t.Fatalf("loop: %v", err)
	}
	if got := strings.Count(out.String(), "Pick 1 to 3."); got != 3 {
		t.Errorf("rejections = %d, want 3", got)
	}
	if p.e.State() != flagquiz.QuestionAsked {
		t.Errorf("state = %v, want QuestionAsked", p.e.State())
	}
}

func TestPlayerFullGame(t *testing.T) {
	// Two rounds: answer, continue, answer, see final score, decline.
	p, out := newTestPlayer(t, "1\n\n2\n\nn\n", 2)
	if err := p.loop(); err != nil {
		t.Fatalf("loop: %v", err)
	}
	s := out.String()
	for _, want := range []string{"Round 1 of 2", "Round 2 of 2", "Final Score", "Bye."} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}
	if !p.e.NewGameRequested() {
		t.Error("expected new game requested at final screen")
	}
}

func TestPlayerStartsNewGame(t *testing.T) {
	p, out := newTestPlayer(t, "1\n\ny\nq\n", 1)
	if err := p.loop(); err != nil {
		t.Fatalf("loop: %v", err)
	}
	if got := strings.Count(out.String(), "Round 1 of 1"); got != 2 {
		t.Errorf("round headers = %d, want 2", got)
	}
	if p.e.Score() != 0 || p.e.State() != flagquiz.QuestionAsked {
		t.Errorf("after new game: score %d state %v", p.e.Score(), p.e.State())
	}
}

func TestPlayerEOF(t *testing.T) {
	p, _ := newTestPlayer(t, "", 2)
	if err := p.loop(); err != nil {
		t.Fatalf("loop: %v", err)
	}
}

func TestRunFlags(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"-rounds", "1", "-seed", "3"}, strings.NewReader("q\n"), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Round 1 of 1") {
		t.Errorf("output:\n%s", out.String())
	}
	if err := run([]string{"-rounds", "0"}, strings.NewReader(""), &out); err == nil {
		t.Error("expected error for zero rounds")
	}
}
