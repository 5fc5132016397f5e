package target

import (
	"github.com/OpenTraceLab/OpenTracePinEnum/pkg/gpio"
	"github.com/OpenTraceLab/OpenTracePinEnum/pkg/tap"
)

// JTAGDevice models the pin-level behaviour of a single TAP: TMS and TDI are
// sampled on the rising TCK edge, TDO changes on the falling edge and is only
// driven while the controller sits in Shift-DR. After Test-Logic-Reset the
// data register captures either the 32-bit IDCODE or the 1-bit bypass
// register, matching a part with or without an IDCODE implemented.
type JTAGDevice struct {
	TCK gpio.Pin
	TMS gpio.Pin
	TDI gpio.Pin
	TDO gpio.Pin

	IDCode    uint32
	HasIDCode bool

	tap      tap.Machine
	dr       uint32
	tdoLatch bool
	tdoDrive bool
	lastTCK  bool
}

// NewIDCodeDevice returns a TAP whose DR path captures the given IDCODE.
func NewIDCodeDevice(tck, tms, tdi, tdo gpio.Pin, id uint32) *JTAGDevice {
	return &JTAGDevice{TCK: tck, TMS: tms, TDI: tdi, TDO: tdo, IDCode: id, HasIDCode: true}
}

// NewBypassDevice returns a TAP without an IDCODE register; after reset its
// DR path is the single bypass bit.
func NewBypassDevice(tck, tms, tdi, tdo gpio.Pin) *JTAGDevice {
	return &JTAGDevice{TCK: tck, TMS: tms, TDI: tdi, TDO: tdo}
}

func (d *JTAGDevice) drWidth() uint {
	if d.HasIDCode {
		return 32
	}
	return 1
}

func (d *JTAGDevice) PinWritten(b *Bench, pin gpio.Pin, level bool) {
	if pin != d.TCK || level == d.lastTCK {
		return
	}
	d.lastTCK = level
	if !level {
		// TDO updates on the falling edge and floats outside Shift-DR.
		if d.tap.State() == tap.ShiftDR {
			d.tdoLatch = d.dr&1 == 1
			d.tdoDrive = true
		} else {
			d.tdoDrive = false
		}
		return
	}
	tms := b.Level(d.TMS)
	tdi := b.Level(d.TDI)
	prev := d.tap.State()
	switch d.tap.Clock(tms) {
	case tap.CaptureDR:
		if d.HasIDCode {
			d.dr = d.IDCode
		} else {
			d.dr = 0
		}
	case tap.ShiftDR:
		if prev == tap.ShiftDR {
			d.dr >>= 1
			if tdi {
				d.dr |= 1 << (d.drWidth() - 1)
			}
		}
	}
}

func (d *JTAGDevice) Drives(b *Bench, pin gpio.Pin) (bool, bool) {
	if pin == d.TDO && d.tdoDrive {
		return d.tdoLatch, true
	}
	return false, false
}
