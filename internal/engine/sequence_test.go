package engine

import "testing"

func TestStepAt(t *testing.T) {
	cases := []struct {
		name  string
		cycle int
		want  Step
	}{
		{name: "waiting", cycle: 0, want: Step{Phase: PhaseWaiting}},
		{name: "planning", cycle: 1, want: Step{Phase: PhasePlanning}},
		{name: "first ban is blue", cycle: 2, want: Step{Phase: PhaseBan, Team: TeamBlue}},
		{name: "last ban is red", cycle: 7, want: Step{Phase: PhaseBan, Team: TeamRed}},
		{name: "first pick is blue", cycle: 8, want: Step{Phase: PhaseSelect, Team: TeamBlue, Picks: 1}},
		{name: "red double pick back half", cycle: 10, want: Step{Phase: PhaseSelect, Team: TeamRed, Picks: 1}},
		{name: "last pick is red", cycle: 17, want: Step{Phase: PhaseSelect, Team: TeamRed, Picks: 1}},
		{name: "terminal", cycle: 18, want: Step{Phase: PhaseDone}},
		{name: "past the end clamps to done", cycle: 50, want: Step{Phase: PhaseDone}},
		{name: "negative clamps to waiting", cycle: -1, want: Step{Phase: PhaseWaiting}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := StepAt(tc.cycle)
			if got != tc.want {
				t.Fatalf("StepAt(%d): got %#v, want %#v", tc.cycle, got, tc.want)
			}
		})
	}
}

func TestSequenceTotals(t *testing.T) {
	bans := map[TeamColor]int{}
	picks := map[TeamColor]int{}
	for _, step := range Sequence {
		switch step.Phase {
		case PhaseBan:
			bans[step.Team]++
		case PhaseSelect:
			picks[step.Team] += step.Picks
		}
	}

	if bans[TeamBlue] != BansPerTeam || bans[TeamRed] != BansPerTeam {
		t.Fatalf("bans per team: got blue=%d red=%d, want %d each", bans[TeamBlue], bans[TeamRed], BansPerTeam)
	}
	if picks[TeamBlue] != PicksPerTeam || picks[TeamRed] != PicksPerTeam {
		t.Fatalf("picks per team: got blue=%d red=%d, want %d each", picks[TeamBlue], picks[TeamRed], PicksPerTeam)
	}
}

func TestTerminal(t *testing.T) {
	if Terminal(17) {
		t.Fatalf("cycle 17 is the last pick, not terminal")
	}
	if !Terminal(TerminalCycle) {
		t.Fatalf("cycle %d should be terminal", TerminalCycle)
	}
	if !Terminal(100) {
		t.Fatalf("cycles past the table should be terminal")
	}
}

func TestOtherTeam(t *testing.T) {
	if TeamBlue.Other() != TeamRed || TeamRed.Other() != TeamBlue {
		t.Fatalf("Other() should swap colors")
	}
}
