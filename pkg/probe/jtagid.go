package probe

import "github.com/OpenTraceLab/OpenTracePinEnum/pkg/gpio"

// Pulse counts and indices for the identification-register search. These
// reproduce the exact on-wire sequence real targets are known to answer;
// change them and the tool stops interoperating.
const (
	idResetPulses   = 40 // reset-then-advance sequence plus 32 sampled cycles
	idSampleStart   = 8  // first pulse index sampled during the capture window
	idFlushPulses   = 512
	idMeasurePulses = 512
	idPatternCycles = 32 // leading cycles of the measurement run that alternate
)

// idSearch carries one FindIDCode invocation's state so nothing persists
// between calls.
type idSearch struct {
	port gpio.Port
	cfg  *Config
	pins []gpio.Pin
}

// FindIDCode searches (clock, mode-select, data-out) triples for a target
// that clocks its identification register onto data-out after a TAP reset,
// then searches the remaining pins for the data-in line by injecting an
// alternating pattern and watching it pass through to data-out.
//
// Every structurally valid triple is evaluated; only the nested data-in
// search stops at its first accepted pin. Matches are returned in discovery
// order, one per accepted triple.
func FindIDCode(port gpio.Port, cfg *Config) []IDCodeMatch {
	s := &idSearch{port: port, cfg: cfg, pins: cfg.candidatePins(port)}

	var matches []IDCodeMatch
	for _, tck := range s.pins {
		for _, tms := range s.pins {
			if tms == tck {
				continue
			}
			for _, tdo := range s.pins {
				if tdo == tck || tdo == tms {
					continue
				}
				logger.Debugf("idcode: trying tck:%d tms:%d tdo:%d", tck, tms, tdo)
				if m, ok := s.tryTriple(tck, tms, tdo); ok {
					matches = append(matches, m)
				}
			}
		}
	}
	return matches
}

// tryTriple runs the reset/capture sequence on one triple and, when the
// data-out line shows real activity, hunts for the data-in pin.
func (s *idSearch) tryTriple(tck, tms, tdo gpio.Pin) (IDCodeMatch, bool) {
	port := s.port
	resetPins(port, s.pins)
	port.ConfigureOutput(tck)
	port.ConfigureOutput(tms)
	port.Set(tms)

	// Five TMS-high cycles force Test-Logic-Reset from any state, then the
	// 0-1-0 walk lands the TAP in Shift-DR with the identification register
	// on the output line. The 32 cycles from idSampleStart shift it out.
	var capture Sampler
	for i := 0; i < idResetPulses; i++ {
		port.Clear(tck)
		port.Set(tck)
		if i >= idSampleStart {
			capture.Observe(port.Read(tdo))
		}
		switch i {
		case 4:
			port.Clear(tms)
		case 5:
			port.Set(tms)
		case 6:
			port.Clear(tms)
		}
	}

	if capture.Toggles() <= s.cfg.ActivityThreshold {
		return IDCodeMatch{}, false
	}
	word := capture.Word()
	logger.Debugf("idcode: activity on tck:%d tms:%d tdo:%d (%d toggles, word 0x%08X)",
		tck, tms, tdo, capture.Toggles(), word)

	for _, tdi := range s.pins {
		if tdi == tck || tdi == tms || tdi == tdo {
			continue
		}
		if s.tryDataIn(tck, tdo, tdi) {
			m := IDCodeMatch{
				Pins: JTAGPins{TCK: tck, TMS: tms, TDO: tdo, TDI: tdi},
				Word: word,
			}
			logger.Infof("idcode: found %s word 0x%08X (%d bits set)",
				m.Pins, m.Word, PopCount32(m.Word))
			return m, true
		}
	}
	return IDCodeMatch{}, false
}

// tryDataIn drives a candidate data-in pin and accepts it when the injected
// alternating pattern shows up on data-out with a bounded toggle count. The
// TAP is still in Shift-DR from the capture phase, so whatever register sits
// between the pins simply keeps shifting.
func (s *idSearch) tryDataIn(tck, tdo, tdi gpio.Pin) bool {
	port := s.port
	port.ConfigureOutput(tdi)

	// Flush the register currently in the path; data-in is held low from
	// the output configuration.
	for i := 0; i < idFlushPulses; i++ {
		port.Clear(tck)
		port.Set(tck)
	}

	var meas Sampler
	for i := 0; i < idMeasurePulses; i++ {
		if i < idPatternCycles {
			gpio.Write(port, tdi, i&1 == 1)
		} else {
			port.Clear(tdi)
		}
		port.Clear(tck)
		port.Set(tck)
		meas.Observe(port.Read(tdo))
	}

	t := meas.Toggles()
	return t > s.cfg.PatternBandLow && t < s.cfg.PatternBandHigh
}
