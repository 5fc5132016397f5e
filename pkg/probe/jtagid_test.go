package probe

import (
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/OpenTraceLab/OpenTracePinEnum/pkg/target"
)

// benchConfig is the default config shrunk to an eight-pin bench, with the
// usual two reserved link pins.
func benchConfig() *Config {
	cfg := DefaultConfig()
	cfg.PinCount = 8
	return cfg
}

// newBench wires the standard test target: a TAP with an IDCODE on pins
// 2 (TCK), 3 (TMS), 4 (TDI), 5 (TDO) and an SWD port on 6 (CLK), 7 (DIO).
func newBench() *target.Bench {
	return target.NewBench(8,
		target.NewIDCodeDevice(2, 3, 4, 5, 0x4BA00477),
		target.NewSWDDevice(6, 7, 0x2BA01477),
	)
}

func TestFindIDCode(t *testing.T) {
	matches := FindIDCode(newBench(), benchConfig())

	// The capture starts one cycle before the register reaches the output
	// line, so the word carries the IDCODE shifted up by one with the
	// pull-up bit below it.
	want := []IDCodeMatch{{
		Pins: JTAGPins{TCK: 2, TMS: 3, TDO: 5, TDI: 4},
		Word: 0x4BA00477<<1 | 1,
	}}
	if diff := cmp.Diff(want, matches); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}
}

func TestFindIDCodeSilentTarget(t *testing.T) {
	if matches := FindIDCode(target.NewBench(8), benchConfig()); len(matches) != 0 {
		t.Errorf("empty bench produced %d matches", len(matches))
	}
}

func TestFindIDCodeDeterministic(t *testing.T) {
	bench := newBench()
	cfg := benchConfig()
	first := FindIDCode(bench, cfg)
	second := FindIDCode(bench, cfg)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
}

func TestFindIDCodeEnumeratesAllTriples(t *testing.T) {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.DebugLevel)
	hook := test.NewLocal(l)
	SetLogger(l)
	defer func() {
		fresh := logrus.New()
		fresh.SetOutput(io.Discard)
		SetLogger(fresh)
	}()

	FindIDCode(newBench(), benchConfig())

	trials := 0
	for _, e := range hook.AllEntries() {
		if strings.HasPrefix(e.Message, "idcode: trying") {
			trials++
		}
	}
	// Six candidate pins give 6*5*4 ordered triples.
	if trials != 120 {
		t.Errorf("tried %d triples, want 120", trials)
	}
}
