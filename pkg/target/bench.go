// Package target provides simulated debug targets wired to an in-memory
// GPIO bench. The bench implements gpio.Port, so the probe finders run
// against it unchanged; attached devices model the pin-level behaviour of
// JTAG TAPs and SWD debug ports.
package target

import (
	"github.com/OpenTraceLab/OpenTracePinEnum/pkg/gpio"
)

// Device is a simulated part attached to a Bench. PinWritten is called
// whenever the host drives a level onto a pin; Drives reports whether the
// device is actively driving a pin and at what level.
type Device interface {
	PinWritten(b *Bench, pin gpio.Pin, level bool)
	Drives(b *Bench, pin gpio.Pin) (level, driven bool)
}

type benchPin struct {
	level  bool
	output bool
}

// Bench is an in-memory gpio.Port. Undriven pins read back high,
// matching the pull-ups a probe board provides on its header.
type Bench struct {
	pins    []benchPin
	devices []Device
}

// NewBench returns a bench with n pins, all configured as inputs with the
// pull-up seen, and the given devices attached.
func NewBench(n int, devices ...Device) *Bench {
	b := &Bench{
		pins:    make([]benchPin, n),
		devices: devices,
	}
	for i := range b.pins {
		b.pins[i].level = true
	}
	return b
}

func (b *Bench) PinCount() int { return len(b.pins) }

func (b *Bench) ConfigureInput(pin gpio.Pin) {
	b.pins[pin] = benchPin{level: true, output: false}
	b.notify(pin, true)
}

func (b *Bench) ConfigureOutput(pin gpio.Pin) {
	b.pins[pin] = benchPin{level: false, output: true}
	b.notify(pin, false)
}

func (b *Bench) Set(pin gpio.Pin) {
	b.pins[pin].level = true
	if b.pins[pin].output {
		b.notify(pin, true)
	}
}

func (b *Bench) Clear(pin gpio.Pin) {
	b.pins[pin].level = false
	if b.pins[pin].output {
		b.notify(pin, false)
	}
}

func (b *Bench) Read(pin gpio.Pin) bool {
	if b.pins[pin].output {
		return b.pins[pin].level
	}
	for _, d := range b.devices {
		if lvl, ok := d.Drives(b, pin); ok {
			return lvl
		}
	}
	return b.pins[pin].level
}

// Level reports the level a device sees on a pin: the host's driven level
// when the pin is an output, the pull-up otherwise.
func (b *Bench) Level(pin gpio.Pin) bool {
	if b.pins[pin].output {
		return b.pins[pin].level
	}
	return true
}

// Released reports whether the host has left a pin undriven.
func (b *Bench) Released(pin gpio.Pin) bool {
	return !b.pins[pin].output
}

func (b *Bench) notify(pin gpio.Pin, level bool) {
	for _, d := range b.devices {
		d.PinWritten(b, pin, level)
	}
}
