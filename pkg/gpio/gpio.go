// Package gpio defines the pin-level boundary the enumeration algorithms
// probe through. A Port is an addressable bank of general-purpose pins; the
// search code only ever configures a pin's direction, drives it, or reads it,
// so any bit-bang capable backend (Raspberry Pi header, FTDI bit-bang bridge,
// simulated bench) can sit behind the same interface.
package gpio

// Pin is an ordinal into a Port's pin bank. Ordinals are backend-specific:
// the Raspberry Pi port maps them to BCM numbers through a table, the FTDI
// port maps them to the eight FT232R data lines, and the simulated bench uses
// them directly.
type Pin uint8

// Port abstracts a bank of individually addressable GPIO pins.
//
// ConfigureInput places a pin in high-impedance input mode with its pull-up
// enabled, so an undriven line reads back high. ConfigureOutput switches a
// pin to push-pull output driven low. Set, Clear, and Read operate on the
// current configuration. None of the operations can fail at this abstraction
// level; backends that talk to fallible transports (USB) keep a sticky error
// internally.
type Port interface {
	PinCount() int
	ConfigureInput(Pin)
	ConfigureOutput(Pin)
	Set(Pin)
	Clear(Pin)
	Read(Pin) bool
}

// Write drives an already-configured output pin to the given level.
func Write(p Port, pin Pin, level bool) {
	if level {
		p.Set(pin)
	} else {
		p.Clear(pin)
	}
}
