package probe

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/OpenTraceLab/OpenTracePinEnum/pkg/gpio"
)

// edgePort is a gpio.Port that records the data-line level at every rising
// clock edge, which is when a target would sample it.
type edgePort struct {
	clk, dio gpio.Pin
	levels   [32]bool
	samples  []bool
}

func (p *edgePort) PinCount() int                { return len(p.levels) }
func (p *edgePort) ConfigureInput(pin gpio.Pin)  { p.levels[pin] = true }
func (p *edgePort) ConfigureOutput(pin gpio.Pin) { p.levels[pin] = false }
func (p *edgePort) Read(pin gpio.Pin) bool       { return p.levels[pin] }

func (p *edgePort) Set(pin gpio.Pin) {
	if pin == p.clk && !p.levels[pin] {
		p.samples = append(p.samples, p.levels[p.dio])
	}
	p.levels[pin] = true
}

func (p *edgePort) Clear(pin gpio.Pin) {
	p.levels[pin] = false
}

func TestDriveConstant(t *testing.T) {
	p := &edgePort{clk: 0, dio: 1}
	DriveConstant(p, 0, 1, true, 5)
	want := []bool{true, true, true, true, true}
	if diff := cmp.Diff(want, p.samples); diff != "" {
		t.Errorf("sampled levels mismatch (-want +got):\n%s", diff)
	}
	if p.levels[0] {
		t.Error("clock should finish low")
	}
}

func TestShiftOutPatternMSBFirst(t *testing.T) {
	p := &edgePort{clk: 0, dio: 1}
	ShiftOutPattern(p, 0, 1, 0xE79E, 16)
	want := []bool{
		true, true, true, false, false, true, true, true,
		true, false, false, true, true, true, true, false,
	}
	if diff := cmp.Diff(want, p.samples); diff != "" {
		t.Errorf("sampled bits mismatch (-want +got):\n%s", diff)
	}
	if p.levels[0] {
		t.Error("clock should finish low")
	}
}

func TestPopCount32(t *testing.T) {
	cases := []struct {
		v    uint32
		want int
	}{
		{0, 0},
		{1, 1},
		{0x80000000, 1},
		{0xFFFFFFFF, 32},
		{0x4BA00477, 13},
	}
	for _, tc := range cases {
		if got := PopCount32(tc.v); got != tc.want {
			t.Errorf("PopCount32(0x%08X) = %d, want %d", tc.v, got, tc.want)
		}
	}
}
