package probe

import "github.com/OpenTraceLab/OpenTracePinEnum/pkg/gpio"

const (
	swdPadPulses       = 8  // zero-padding between protocol phases
	swdLineResetPulses = 50 // constant-1 run that resets the wire protocol
	swdPatternWidth    = 16
	swdResponsePulses  = 38
	swdWindowStart     = 3  // first sampled cycle after the turn-around
	swdWindowEnd       = 34 // last sampled cycle before the tail turn-around
)

// FindSWD searches (clock, bidirectional-data) pairs by emulating the
// two-wire protocol's line-reset and interface-switch sequences, issuing an
// identification-read request, releasing the data line, and listening for a
// response. The sampled window excludes the first and last few cycles, which
// fall into direction turn-around periods.
//
// The full pair space is enumerated; every pair whose response window shows
// real activity is returned in discovery order.
func FindSWD(port gpio.Port, cfg *Config) []SWDMatch {
	pins := cfg.candidatePins(port)

	var matches []SWDMatch
	for _, clk := range pins {
		for _, dio := range pins {
			if dio == clk {
				continue
			}
			pair := SWDPins{SWCLK: clk, SWDIO: dio}
			logger.Debugf("swd: trying %s", pair)
			if m, ok := trySWD(port, cfg, pins, pair); ok {
				matches = append(matches, m)
			}
		}
	}
	return matches
}

func trySWD(port gpio.Port, cfg *Config, pins []gpio.Pin, p SWDPins) (SWDMatch, bool) {
	resetPins(port, pins)
	port.ConfigureOutput(p.SWCLK)
	port.ConfigureOutput(p.SWDIO)

	// Line reset, switch a dual-mode target from JTAG to SWD, line reset
	// again, then request the identification register.
	DriveConstant(port, p.SWCLK, p.SWDIO, false, swdPadPulses)
	DriveConstant(port, p.SWCLK, p.SWDIO, true, swdLineResetPulses)
	ShiftOutPattern(port, p.SWCLK, p.SWDIO, cfg.SwitchSequence, swdPatternWidth)
	DriveConstant(port, p.SWCLK, p.SWDIO, false, swdPadPulses)
	DriveConstant(port, p.SWCLK, p.SWDIO, true, swdLineResetPulses)
	ShiftOutPattern(port, p.SWCLK, p.SWDIO, cfg.ReadRequest, swdPatternWidth)

	// The data line is bidirectional: release it so the target can answer.
	port.Clear(p.SWCLK)
	port.Clear(p.SWDIO)
	port.ConfigureInput(p.SWDIO)

	var resp Sampler
	for i := 0; i < swdResponsePulses; i++ {
		port.Clear(p.SWCLK)
		port.Set(p.SWCLK)
		if i >= swdWindowStart && i <= swdWindowEnd {
			resp.Observe(port.Read(p.SWDIO))
		}
	}
	port.Clear(p.SWCLK)

	if resp.Toggles() <= cfg.ActivityThreshold {
		return SWDMatch{}, false
	}
	m := SWDMatch{Pins: p, Word: resp.Word()}
	logger.Infof("swd: found %s word 0x%08X (%d toggles)", m.Pins, m.Word, resp.Toggles())
	return m, true
}
