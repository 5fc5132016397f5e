package probe

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTracePinEnum/pkg/gpio"
)

// Config controls a scan: which ordinals are searched and the heuristic
// acceptance bands applied to each trial.
//
// The bands are exclusive on both ends: a trial passes when
// low < toggles < high. Their defaults come from bench measurements against
// real targets and may need adjustment for noisy harnesses, which is why they
// live in the config rather than as constants.
type Config struct {
	// PinCount is the number of ordinals to search, capped at the port's
	// own pin count.
	PinCount int `yaml:"pin_count"`

	// ReservedPins are excluded from every role in every search. By default
	// they are the two lines carrying the fixed communication link.
	ReservedPins []gpio.Pin `yaml:"reserved_pins"`

	// ActivityThreshold gates the JTAG-ID capture phase and the SWD response
	// window: more than this many toggles counts as a live line.
	ActivityThreshold int `yaml:"activity_threshold"`

	// PatternBandLow/High bound the toggle count expected when the injected
	// alternating pattern passes from data-in to data-out (JTAG-ID's nested
	// data-in search): band center 32, +-2 of slack for propagation delay.
	PatternBandLow  int `yaml:"pattern_band_low"`
	PatternBandHigh int `yaml:"pattern_band_high"`

	// BypassBandLow/High bound the toggle count for the sparse pattern
	// echoed through a one-bit bypass register: band center 16.
	BypassBandLow  int `yaml:"bypass_band_low"`
	BypassBandHigh int `yaml:"bypass_band_high"`

	// SwitchSequence is the published 16-bit JTAG-to-SWD interface-switch
	// pattern, sent most-significant-bit first.
	SwitchSequence uint16 `yaml:"switch_sequence"`

	// ReadRequest is the 16-bit idle-prefix-plus-request word whose low byte
	// asks the target for its identification register.
	ReadRequest uint16 `yaml:"read_request"`
}

// DefaultConfig returns the configuration used for a stock 16-pin harness
// with the communication link on ordinals 0 and 1.
func DefaultConfig() *Config {
	return &Config{
		PinCount:          16,
		ReservedPins:      []gpio.Pin{0, 1},
		ActivityThreshold: 7,
		PatternBandLow:    29,
		PatternBandHigh:   35,
		BypassBandLow:     13,
		BypassBandHigh:    19,
		SwitchSequence:    0xE79E,
		ReadRequest:       0x00A5,
	}
}

// LoadConfig reads a YAML probe profile over the defaults, so a profile only
// needs to name the fields it changes.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("probe: reading config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("probe: parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("probe: config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values no search could run with.
func (c *Config) Validate() error {
	if c.PinCount < 2 {
		return fmt.Errorf("pin_count must be at least 2, got %d", c.PinCount)
	}
	for _, r := range c.ReservedPins {
		if int(r) >= c.PinCount {
			return fmt.Errorf("reserved pin %d outside pin range 0..%d", r, c.PinCount-1)
		}
	}
	if c.ActivityThreshold < 0 {
		return fmt.Errorf("activity_threshold must not be negative")
	}
	if c.PatternBandLow >= c.PatternBandHigh {
		return fmt.Errorf("pattern band (%d,%d) is empty", c.PatternBandLow, c.PatternBandHigh)
	}
	if c.BypassBandLow >= c.BypassBandHigh {
		return fmt.Errorf("bypass band (%d,%d) is empty", c.BypassBandLow, c.BypassBandHigh)
	}
	return nil
}

func (c *Config) isReserved(pin gpio.Pin) bool {
	for _, r := range c.ReservedPins {
		if r == pin {
			return true
		}
	}
	return false
}

// candidatePins lists the searchable ordinals in ascending order: everything
// in range on both the config and the port, minus the reserved lines.
func (c *Config) candidatePins(port gpio.Port) []gpio.Pin {
	n := c.PinCount
	if pc := port.PinCount(); pc < n {
		n = pc
	}
	pins := make([]gpio.Pin, 0, n)
	for i := 0; i < n; i++ {
		pin := gpio.Pin(i)
		if c.isReserved(pin) {
			continue
		}
		pins = append(pins, pin)
	}
	return pins
}

// resetPins returns every searchable pin to the idle input-with-pull-up
// state. Pulling an unknown mode-select line high is the level least likely
// to advance a target's state machine by accident.
func resetPins(port gpio.Port, pins []gpio.Pin) {
	for _, p := range pins {
		port.ConfigureInput(p)
	}
}
