package probe

import "github.com/OpenTraceLab/OpenTracePinEnum/pkg/gpio"

const (
	bypassResetPulses   = 9  // shortened reset-then-advance walk into Capture-DR
	bypassFlushPulses   = 64 // clears whatever register is in the data path
	bypassMeasurePulses = 33
	bypassInjectPeriod  = 4 // data-in driven high every 4th cycle
)

// FindBypass searches full (clock, mode-select, data-out, data-in)
// assignments for a target that falls into its single-bit pass-through
// register after reset. A sparse pattern is injected on data-in; a bypass
// register echoes it on data-out with a one-cycle delay, producing a toggle
// count near 16 over the measurement window.
//
// The whole four-role space is enumerated with no early exit; every accepted
// assignment is returned in discovery order.
func FindBypass(port gpio.Port, cfg *Config) []BypassMatch {
	pins := cfg.candidatePins(port)

	var matches []BypassMatch
	for _, tck := range pins {
		for _, tms := range pins {
			if tms == tck {
				continue
			}
			for _, tdo := range pins {
				if tdo == tck || tdo == tms {
					continue
				}
				for _, tdi := range pins {
					if tdi == tck || tdi == tms || tdi == tdo {
						continue
					}
					assignment := JTAGPins{TCK: tck, TMS: tms, TDO: tdo, TDI: tdi}
					logger.Debugf("bypass: trying %s", assignment)
					if m, ok := tryBypass(port, cfg, pins, assignment); ok {
						matches = append(matches, m)
					}
				}
			}
		}
	}
	return matches
}

func tryBypass(port gpio.Port, cfg *Config, pins []gpio.Pin, a JTAGPins) (BypassMatch, bool) {
	resetPins(port, pins)
	port.ConfigureOutput(a.TCK)
	port.ConfigureOutput(a.TMS)
	port.ConfigureOutput(a.TDI)
	port.Set(a.TMS)
	port.Clear(a.TDI)

	// Reset, then walk into Capture-DR; the flush below carries the TAP into
	// Shift-DR and drains the register currently in the path.
	for i := 0; i < bypassResetPulses; i++ {
		port.Clear(a.TCK)
		port.Set(a.TCK)
		switch i {
		case 5:
			port.Clear(a.TMS)
		case 6:
			port.Set(a.TMS)
		case 7:
			port.Clear(a.TMS)
		}
	}
	for i := 0; i < bypassFlushPulses; i++ {
		port.Clear(a.TCK)
		port.Set(a.TCK)
	}

	// Stay in the shift state and inject a low-duty pattern: one high cycle
	// in every four. Each injected high echoes through a bypass register as
	// an isolated pulse, two toggles apiece.
	port.Clear(a.TMS)
	var meas Sampler
	for i := 0; i < bypassMeasurePulses; i++ {
		gpio.Write(port, a.TDI, i%bypassInjectPeriod == 0)
		port.Clear(a.TCK)
		port.Set(a.TCK)
		meas.Observe(port.Read(a.TDO))
	}

	t := meas.Toggles()
	if t <= cfg.BypassBandLow || t >= cfg.BypassBandHigh {
		return BypassMatch{}, false
	}

	// Nudge the target back toward reset before the next trial.
	port.Set(a.TMS)

	m := BypassMatch{Pins: a, Word: meas.Word()}
	logger.Infof("bypass: found %s word 0x%08X (%d toggles)", m.Pins, m.Word, t)
	return m, true
}
