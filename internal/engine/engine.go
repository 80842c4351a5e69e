package engine

import "errors"

var ErrNotYourTurn = errors.New("team does not have the turn")
var ErrSelectionClosed = errors.New("selection is not open")
var ErrUnknownHero = errors.New("hero is not in the pool")
var ErrPoolExhausted = errors.New("hero pool exhausted")

type TeamColor string

const (
	TeamBlue TeamColor = "blue"
	TeamRed  TeamColor = "red"
)

// Other returns the opposing team color.
func (t TeamColor) Other() TeamColor {
	if t == TeamBlue {
		return TeamRed
	}
	return TeamBlue
}

type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhasePlanning Phase = "planning"
	PhaseBan      Phase = "ban"
	PhaseSelect   Phase = "select"
	PhaseDone     Phase = "done"
)

// Hero is one slot in a hero pool or a team's ban/pick list. A nil ID
// means the slot is empty: not filled yet in a team list, or a skipped
// ban once Selected is true. Selected is never unset once set.
type Hero struct {
	ID       *string `json:"id"`
	Name     *string `json:"name"`
	Selected bool    `json:"selected"`
}

// EmptySlot is an unfilled ban/pick slot.
func EmptySlot() Hero {
	return Hero{}
}

// SkippedSlot marks a slot consumed without a hero, e.g. a ban that
// expired with nothing clicked.
func SkippedSlot() Hero {
	return Hero{Selected: true}
}

const (
	BansPerTeam  = 3
	PicksPerTeam = 5
)

// EmptySlots returns n unfilled slots for a fresh team.
func EmptySlots(n int) []Hero {
	return make([]Hero, n)
}
