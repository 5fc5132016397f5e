package probe

import "github.com/OpenTraceLab/OpenTracePinEnum/pkg/gpio"

// DriveConstant holds the data line at level while issuing pulses clock
// cycles (low, then high), finishing with the clock low. The SWD finder uses
// it for line resets (long runs of 1s) and padding zero runs.
func DriveConstant(port gpio.Port, clk, dio gpio.Pin, level bool, pulses int) {
	gpio.Write(port, dio, level)
	for i := 0; i < pulses; i++ {
		port.Clear(clk)
		port.Set(clk)
	}
	port.Clear(clk)
}

// ShiftOutPattern clocks out the top width bits of pattern, most-significant
// bit first: clock low, data set to the current top bit, clock high.
// Finishes with the clock low.
func ShiftOutPattern(port gpio.Port, clk, dio gpio.Pin, pattern uint16, width int) {
	for i := 0; i < width; i++ {
		port.Clear(clk)
		gpio.Write(port, dio, pattern&0x8000 != 0)
		port.Set(clk)
		pattern <<= 1
	}
	port.Clear(clk)
}

// PopCount32 counts the set bits of v by testing and shifting through all 32
// positions.
func PopCount32(v uint32) int {
	n := 0
	for i := 0; i < 32; i++ {
		if v&1 == 1 {
			n++
		}
		v >>= 1
	}
	return n
}
