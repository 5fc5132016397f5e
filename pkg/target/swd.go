package target

import (
	"github.com/OpenTraceLab/OpenTracePinEnum/pkg/gpio"
)

const swdLineResetLen = 50

// SWDDevice models an SW-DP sitting behind a JTAG-to-SWD dispatcher. It
// recognises the dormant-exit dance on its two pins: a line reset of at
// least 50 high cycles, the 16-bit switch sequence, a second line reset and
// then a DPIDR read request. Once armed it answers on the wire turnaround
// with OK and the 32-bit DPIDR, LSB first, as soon as the host releases
// SWDIO.
type SWDDevice struct {
	CLK gpio.Pin
	DIO gpio.Pin

	DPIDR  uint32
	Switch uint16
	Read   uint16

	lastCLK   bool
	window    uint16
	onesRun   int
	resetSeen bool
	switched  bool
	armed     bool
	resp      []bool
	respIdx   int
}

// NewSWDDevice returns a debug port that answers a DPIDR read with id once
// the standard switch sequence (0xE79E) and read request (0x00A5) have been
// seen on clk and dio.
func NewSWDDevice(clk, dio gpio.Pin, id uint32) *SWDDevice {
	return &SWDDevice{CLK: clk, DIO: dio, DPIDR: id, Switch: 0xE79E, Read: 0x00A5}
}

func (d *SWDDevice) PinWritten(b *Bench, pin gpio.Pin, level bool) {
	if pin != d.CLK || level == d.lastCLK {
		return
	}
	d.lastCLK = level
	if level {
		d.risingEdge(b.Level(d.DIO))
		return
	}
	// The response register advances on the falling edge, but only once the
	// host has handed the line over.
	if d.armed && b.Released(d.DIO) && d.respIdx < len(d.resp)-1 {
		d.respIdx++
	}
}

func (d *SWDDevice) risingEdge(dio bool) {
	if dio {
		d.onesRun++
	} else {
		d.onesRun = 0
	}
	d.window <<= 1
	if dio {
		d.window |= 1
	}
	if d.onesRun >= swdLineResetLen {
		d.resetSeen = true
		d.armed = false
	}
	if !d.resetSeen {
		return
	}
	switch {
	case !d.switched && d.window == d.Switch:
		d.switched = true
		d.resetSeen = false
	case d.switched && d.window == d.Read:
		d.resetSeen = false
		d.armed = true
		d.respIdx = -1
		d.resp = d.buildResponse()
	}
}

// buildResponse lays out the turnaround bit, the three-bit OK ack and the
// DPIDR, least significant bit first, followed by idle zeros.
func (d *SWDDevice) buildResponse() []bool {
	resp := make([]bool, 0, 40)
	resp = append(resp, true)               // turnaround
	resp = append(resp, true, false, false) // ACK = OK
	for i := 0; i < 32; i++ {
		resp = append(resp, d.DPIDR>>uint(i)&1 == 1)
	}
	resp = append(resp, false, false, false, false)
	return resp
}

func (d *SWDDevice) Drives(b *Bench, pin gpio.Pin) (bool, bool) {
	if pin == d.DIO && d.armed && d.respIdx >= 0 {
		return d.resp[d.respIdx], true
	}
	return false, false
}
