package tap

import "testing"

func TestNextTable(t *testing.T) {
	type transition struct {
		start State
		tms   bool
		end   State
	}

	cases := []transition{
		{Reset, false, Idle},
		{Reset, true, Reset},
		{Idle, true, SelectDR},
		{SelectDR, false, CaptureDR},
		{CaptureDR, false, ShiftDR},
		{ShiftDR, false, ShiftDR},
		{ShiftDR, true, Exit1DR},
		{Exit2DR, false, ShiftDR},
		{SelectIR, true, Reset},
		{CaptureIR, false, ShiftIR},
		{PauseIR, true, Exit2IR},
		{Exit2IR, true, UpdateIR},
	}

	for _, tc := range cases {
		got := Next(tc.start, tc.tms)
		if got != tc.end {
			t.Fatalf("Next(%s, %v) = %s, want %s", tc.start, tc.tms, got, tc.end)
		}
	}
}

func TestFiveHighCyclesResetFromAnywhere(t *testing.T) {
	// The enumeration sequences rely on five TMS-high cycles reaching
	// Test-Logic-Reset regardless of where a previous trial left the TAP.
	for s := Reset; s <= UpdateIR; s++ {
		m := Machine{s: s}
		for i := 0; i < 5; i++ {
			m.Clock(true)
		}
		if m.State() != Reset {
			t.Errorf("from %s, five TMS-high cycles ended in %s", s, m.State())
		}
	}
}

func TestMachineWalkToShiftDR(t *testing.T) {
	var m Machine
	for _, tms := range []bool{false, true, false, false} {
		m.Clock(tms)
	}
	if m.State() != ShiftDR {
		t.Fatalf("State() = %s, want %s", m.State(), ShiftDR)
	}

	m.ResetState()
	if m.State() != Reset {
		t.Fatalf("State() after ResetState = %s, want %s", m.State(), Reset)
	}
}
