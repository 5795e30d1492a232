package server

import "github.com/playperu/flagquiz/internal/flagquiz"

type FlagInfo struct {
	Country     string `json:"country"`
	Asset       string `json:"asset"`
	Description string `json:"description"`
}

type ResultInfo struct {
	Round    int    `json:"round"`
	Selected int    `json:"selected"`
	Country  string `json:"country"`
	Correct  bool   `json:"correct"`
	Message  string `json:"message"`
}

// GameView is what a player sees. CorrectIndex is only set once the current
// round has been answered.
type GameView struct {
	ID               string      `json:"id"`
	State            string      `json:"state"`
	Prompt           string      `json:"prompt"`
	Flags            []FlagInfo  `json:"flags"`
	CorrectIndex     *int        `json:"correctIndex,omitempty"`
	Score            int         `json:"score"`
	Round            int         `json:"round"`
	TotalRounds      int         `json:"totalRounds"`
	Message          string      `json:"message"`
	Result           *ResultInfo `json:"result,omitempty"`
	NewGameRequested bool        `json:"newGameRequested"`
}

func flagInfo(c flagquiz.Country) FlagInfo {
	f, ok := flagquiz.LookupFlag(c)
	if !ok {
		// Custom pools have no artwork; fall back to the identifier.
		return FlagInfo{Country: string(c), Asset: string(c), Description: string(c)}
	}
	return FlagInfo{Country: string(f.Country), Asset: f.Asset, Description: f.Description}
}

func newGameView(id string, e *flagquiz.Engine) GameView {
	round := e.Round()
	v := GameView{
		ID:               id,
		State:            e.State().String(),
		Prompt:           string(e.Prompt()),
		Flags:            make([]FlagInfo, 0, len(round.Countries)),
		Score:            e.Score(),
		Round:            e.RoundNumber(),
		TotalRounds:      e.TotalRounds(),
		Message:          e.Message(),
		NewGameRequested: e.NewGameRequested(),
	}
	for _, c := range round.Countries {
		v.Flags = append(v.Flags, flagInfo(c))
	}
	if e.Revealed() {
		idx := round.CorrectIndex
		v.CorrectIndex = &idx
	}
	if res, ok := e.LastResult(); ok {
		v.Result = &ResultInfo{
			Round:    res.Round,
			Selected: res.Selected,
			Country:  string(res.Country),
			Correct:  res.Correct,
			Message:  res.Message,
		}
	}
	return v
}
