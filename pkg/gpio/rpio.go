package gpio

import (
	"fmt"

	rpio "github.com/stianeikeland/go-rpio/v4"
)

// DefaultHeaderMap is the BCM numbering for the header pins usually patched
// to a target during a scan. Ordinal 0 maps to DefaultHeaderMap[0] and so on;
// pass a different slice to OpenRPiPort for other wiring harnesses.
var DefaultHeaderMap = []uint8{14, 15, 18, 23, 24, 25, 8, 7, 10, 9, 11, 17, 27, 22, 5, 6}

// RPiPort drives Raspberry Pi GPIO through /dev/gpiomem. Pin ordinals resolve
// to BCM numbers through an indexed table, so every operation is a single
// lookup. Reserved ordinals are no-ops: the lines they map to carry the fixed
// communication link and must never be disturbed by a scan.
type RPiPort struct {
	table    []rpio.Pin
	reserved map[Pin]struct{}
}

// OpenRPiPort memory-maps the GPIO block and returns a port over the given
// BCM mapping. Call Close when done.
func OpenRPiPort(bcm []uint8, reserved []Pin) (*RPiPort, error) {
	if len(bcm) == 0 {
		return nil, fmt.Errorf("gpio: empty BCM mapping")
	}
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("gpio: opening gpiomem: %w", err)
	}
	p := &RPiPort{
		table:    make([]rpio.Pin, len(bcm)),
		reserved: make(map[Pin]struct{}, len(reserved)),
	}
	for i, n := range bcm {
		p.table[i] = rpio.Pin(n)
	}
	for _, r := range reserved {
		p.reserved[r] = struct{}{}
	}
	return p, nil
}

// Close releases the GPIO mapping.
func (p *RPiPort) Close() error {
	return rpio.Close()
}

func (p *RPiPort) PinCount() int {
	return len(p.table)
}

func (p *RPiPort) usable(pin Pin) bool {
	if int(pin) >= len(p.table) {
		return false
	}
	_, res := p.reserved[pin]
	return !res
}

func (p *RPiPort) ConfigureInput(pin Pin) {
	if !p.usable(pin) {
		return
	}
	g := p.table[pin]
	g.Input()
	g.PullUp()
}

func (p *RPiPort) ConfigureOutput(pin Pin) {
	if !p.usable(pin) {
		return
	}
	g := p.table[pin]
	g.Output()
	g.Low()
}

func (p *RPiPort) Set(pin Pin) {
	if p.usable(pin) {
		p.table[pin].High()
	}
}

func (p *RPiPort) Clear(pin Pin) {
	if p.usable(pin) {
		p.table[pin].Low()
	}
}

func (p *RPiPort) Read(pin Pin) bool {
	if !p.usable(pin) {
		return false
	}
	return p.table[pin].Read() == rpio.High
}
