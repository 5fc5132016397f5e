package probe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/OpenTraceLab/OpenTracePinEnum/pkg/gpio"
	"github.com/OpenTraceLab/OpenTracePinEnum/pkg/target"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.ActivityThreshold != 7 {
		t.Errorf("ActivityThreshold = %d, want 7", cfg.ActivityThreshold)
	}
	if cfg.SwitchSequence != 0xE79E || cfg.ReadRequest != 0x00A5 {
		t.Errorf("wire constants = 0x%04X/0x%04X, want 0xE79E/0x00A5",
			cfg.SwitchSequence, cfg.ReadRequest)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"pin count too small", func(c *Config) { c.PinCount = 1 }},
		{"reserved pin out of range", func(c *Config) { c.ReservedPins = []gpio.Pin{16} }},
		{"negative threshold", func(c *Config) { c.ActivityThreshold = -1 }},
		{"empty pattern band", func(c *Config) { c.PatternBandLow = 35; c.PatternBandHigh = 29 }},
		{"empty bypass band", func(c *Config) { c.BypassBandLow = 19; c.BypassBandHigh = 19 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() accepted a broken config")
			}
		})
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	profile := "pin_count: 8\nreserved_pins: [0]\nactivity_threshold: 4\n"
	if err := os.WriteFile(path, []byte(profile), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.PinCount != 8 || cfg.ActivityThreshold != 4 {
		t.Errorf("overrides not applied: pin_count=%d threshold=%d", cfg.PinCount, cfg.ActivityThreshold)
	}
	if diff := cmp.Diff([]gpio.Pin{0}, cfg.ReservedPins); diff != "" {
		t.Errorf("reserved pins mismatch (-want +got):\n%s", diff)
	}
	// Fields the profile does not name keep their defaults.
	if cfg.SwitchSequence != 0xE79E || cfg.PatternBandLow != 29 {
		t.Errorf("defaults lost: switch=0x%04X band_low=%d", cfg.SwitchSequence, cfg.PatternBandLow)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("pin_count: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("invalid profile should fail validation")
	}
}

func TestCandidatePins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PinCount = 8
	bench := target.NewBench(8)
	want := []gpio.Pin{2, 3, 4, 5, 6, 7}
	if diff := cmp.Diff(want, cfg.candidatePins(bench)); diff != "" {
		t.Errorf("candidate pins mismatch (-want +got):\n%s", diff)
	}

	// A smaller port caps the search even when the config asks for more.
	cfg.PinCount = 16
	bench = target.NewBench(4)
	want = []gpio.Pin{2, 3}
	if diff := cmp.Diff(want, cfg.candidatePins(bench)); diff != "" {
		t.Errorf("capped candidate pins mismatch (-want +got):\n%s", diff)
	}
}
