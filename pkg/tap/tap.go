// Package tap models the IEEE 1149.1 TAP controller state graph. The
// enumeration algorithms drive TMS blindly, so the package is used on the
// simulated-target side: a bench device clocks a Machine to decide when its
// registers capture and shift.
package tap

import "fmt"

// State is one of the 16 defined IEEE 1149.1 TAP controller states.
type State uint8

const (
	Reset State = iota
	Idle
	SelectDR
	CaptureDR
	ShiftDR
	Exit1DR
	PauseDR
	Exit2DR
	UpdateDR
	SelectIR
	CaptureIR
	ShiftIR
	Exit1IR
	PauseIR
	Exit2IR
	UpdateIR
)

var stateNames = [...]string{
	Reset:     "TestLogicReset",
	Idle:      "RunTestIdle",
	SelectDR:  "SelectDRScan",
	CaptureDR: "CaptureDR",
	ShiftDR:   "ShiftDR",
	Exit1DR:   "Exit1DR",
	PauseDR:   "PauseDR",
	Exit2DR:   "Exit2DR",
	UpdateDR:  "UpdateDR",
	SelectIR:  "SelectIRScan",
	CaptureIR: "CaptureIR",
	ShiftIR:   "ShiftIR",
	Exit1IR:   "Exit1IR",
	PauseIR:   "PauseIR",
	Exit2IR:   "Exit2IR",
	UpdateIR:  "UpdateIR",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// transitions[s] holds the successor for TMS=0 and TMS=1.
var transitions = [16][2]State{
	Reset:     {Idle, Reset},
	Idle:      {Idle, SelectDR},
	SelectDR:  {CaptureDR, SelectIR},
	CaptureDR: {ShiftDR, Exit1DR},
	ShiftDR:   {ShiftDR, Exit1DR},
	Exit1DR:   {PauseDR, UpdateDR},
	PauseDR:   {PauseDR, Exit2DR},
	Exit2DR:   {ShiftDR, UpdateDR},
	UpdateDR:  {Idle, SelectDR},
	SelectIR:  {CaptureIR, Reset},
	CaptureIR: {ShiftIR, Exit1IR},
	ShiftIR:   {ShiftIR, Exit1IR},
	Exit1IR:   {PauseIR, UpdateIR},
	PauseIR:   {PauseIR, Exit2IR},
	Exit2IR:   {ShiftIR, UpdateIR},
	UpdateIR:  {Idle, SelectDR},
}

// Next returns the state reached by one TCK cycle with the given TMS level.
func Next(s State, tms bool) State {
	row := transitions[s&0x0F]
	if tms {
		return row[1]
	}
	return row[0]
}

// Machine tracks a TAP controller's state across clock cycles. The zero value
// starts in Test-Logic-Reset, which is where five TMS-high cycles land any
// conforming device.
type Machine struct {
	s State
}

// State reports the current controller state.
func (m *Machine) State() State {
	return m.s
}

// Clock advances the machine one TCK cycle with the provided TMS level and
// returns the new state.
func (m *Machine) Clock(tms bool) State {
	m.s = Next(m.s, tms)
	return m.s
}

// ResetState forces the machine back to Test-Logic-Reset, mirroring a
// power-on or TRST assertion on the modeled device.
func (m *Machine) ResetState() {
	m.s = Reset
}
