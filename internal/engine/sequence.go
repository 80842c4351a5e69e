package engine

// Step is one entry of the draft turn sequence, indexed by a room's
// cycle counter.
type Step struct {
	Phase Phase
	Team  TeamColor
	Picks int
}

// Sequence is the full turn order for a room. Blue opens both the ban
// phase and the pick phase; picks follow the snake pattern so each team
// ends with five.
var Sequence = []Step{
	{Phase: PhaseWaiting},                            // 0
	{Phase: PhasePlanning},                           // 1
	{Phase: PhaseBan, Team: TeamBlue},                // 2
	{Phase: PhaseBan, Team: TeamRed},                 // 3
	{Phase: PhaseBan, Team: TeamBlue},                // 4
	{Phase: PhaseBan, Team: TeamRed},                 // 5
	{Phase: PhaseBan, Team: TeamBlue},                // 6
	{Phase: PhaseBan, Team: TeamRed},                 // 7
	{Phase: PhaseSelect, Team: TeamBlue, Picks: 1},   // 8
	{Phase: PhaseSelect, Team: TeamRed, Picks: 1},    // 9
	{Phase: PhaseSelect, Team: TeamRed, Picks: 1},    // 10
	{Phase: PhaseSelect, Team: TeamBlue, Picks: 1},   // 11
	{Phase: PhaseSelect, Team: TeamBlue, Picks: 1},   // 12
	{Phase: PhaseSelect, Team: TeamRed, Picks: 1},    // 13
	{Phase: PhaseSelect, Team: TeamRed, Picks: 1},    // 14
	{Phase: PhaseSelect, Team: TeamBlue, Picks: 1},   // 15
	{Phase: PhaseSelect, Team: TeamBlue, Picks: 1},   // 16
	{Phase: PhaseSelect, Team: TeamRed, Picks: 1},    // 17
	{Phase: PhaseDone},                               // 18
}

// FirstActionCycle is the cycle of the first ban turn.
const FirstActionCycle = 2

// TerminalCycle is the cycle at which the draft is done.
var TerminalCycle = len(Sequence) - 1

// StepAt returns the sequence entry for a cycle. Cycles past the end of
// the table resolve to the terminal done entry.
func StepAt(cycle int) Step {
	if cycle < 0 {
		return Sequence[0]
	}
	if cycle >= len(Sequence) {
		return Sequence[len(Sequence)-1]
	}
	return Sequence[cycle]
}

// Terminal reports whether a cycle has reached the done entry.
func Terminal(cycle int) bool {
	return StepAt(cycle).Phase == PhaseDone
}
