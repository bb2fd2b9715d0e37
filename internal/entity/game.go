package entity

import "slices"

const (
	OutcomeContinue = "continue"
	OutcomeWin      = "win"
	OutcomeDraw     = "draw"
)

type Score struct {
	X int `json:"X"`
	O int `json:"O"`
}

// Add - returns the score with one more point for mark.
func (that Score) Add(mark string) Score {
	switch mark {
	case PlayerX:
		that.X++
	case PlayerO:
		that.O++
	}
	return that
}

// Game is the public state of one nested board. It is a value: copies made with
// Clone share nothing with the original.
type Game struct {
	SubBoards        [BoardSize][BoardSize]string `json:"subBoards"`
	BigBoard         [BoardSize]string            `json:"bigBoard"`
	Turn             string                       `json:"turn"`
	TargetSubBoard   int                          `json:"targetSubBoard"`
	FreeMove         bool                         `json:"freeMove"`
	DecidedSubBoards []int                        `json:"decidedSubBoards"`
	Score            Score                        `json:"score"`
}

// NewGame - returns an empty board where X moves first anywhere, carrying score forward.
func NewGame(score Score) Game {
	return Game{
		Turn:             PlayerX,
		TargetSubBoard:   0,
		FreeMove:         true,
		DecidedSubBoards: []int{},
		Score:            score,
	}
}

func (that Game) Clone() Game {
	clone := that
	clone.DecidedSubBoards = slices.Clone(that.DecidedSubBoards)
	if clone.DecidedSubBoards == nil {
		clone.DecidedSubBoards = []int{}
	}
	return clone
}

func (that Game) IsDecided(subBoard int) bool {
	return slices.Contains(that.DecidedSubBoards, subBoard)
}

type Move struct {
	SubBoard int    `json:"subBoardIndex"`
	Cell     int    `json:"cellIndex"`
	Role     string `json:"role"`
}

// Outcome tags the result of an accepted move.
type Outcome struct {
	Kind     string `json:"kind"`
	Winner   string `json:"winner,omitempty"`
	LastMove Move   `json:"lastMove"`
}

func (that Outcome) IsTerminal() bool {
	return that.Kind == OutcomeWin || that.Kind == OutcomeDraw
}
