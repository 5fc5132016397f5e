package probe

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTracePinEnum/pkg/gpio"
)

// JTAGPins is one candidate assignment of the four JTAG roles to pins.
type JTAGPins struct {
	TCK gpio.Pin
	TMS gpio.Pin
	TDO gpio.Pin
	TDI gpio.Pin
}

func (p JTAGPins) String() string {
	return fmt.Sprintf("tck:%d tms:%d tdo:%d tdi:%d", p.TCK, p.TMS, p.TDO, p.TDI)
}

// SWDPins is one candidate assignment of the two SWD roles to pins.
type SWDPins struct {
	SWCLK gpio.Pin
	SWDIO gpio.Pin
}

func (p SWDPins) String() string {
	return fmt.Sprintf("swclk:%d swdio:%d", p.SWCLK, p.SWDIO)
}

// IDCodeMatch is an accepted JTAG-ID assignment together with the word the
// target shifted out of its identification register after reset.
type IDCodeMatch struct {
	Pins JTAGPins
	Word uint32
}

// BypassMatch is an accepted bypass assignment together with the word
// sampled while the sparse pattern echoed through the pass-through register.
type BypassMatch struct {
	Pins JTAGPins
	Word uint32
}

// SWDMatch is an accepted SWD pair together with the sampled response
// window. The word's bit alignment is approximate: turn-around cycles ahead
// of the response may shift it, which is fine because only line activity
// identifies the pins.
type SWDMatch struct {
	Pins SWDPins
	Word uint32
}
