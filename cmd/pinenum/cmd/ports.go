package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePinEnum/pkg/gpio"
	"github.com/OpenTraceLab/OpenTracePinEnum/pkg/probe"
	"github.com/OpenTraceLab/OpenTracePinEnum/pkg/target"
)

var (
	portType     string
	pinCount     int
	reservedList []int
	configPath   string

	simJTAG   string
	simSWD    string
	simID     uint32
	simBypass bool
)

// addPortFlags registers the port-selection flags shared by every search
// command.
func addPortFlags(c *cobra.Command) {
	c.Flags().StringVarP(&portType, "port", "p", "sim",
		"GPIO port driver (sim, rpio, ftdi)")
	c.Flags().IntVar(&pinCount, "pins", 0,
		"number of probe ordinals to search (0 = profile default)")
	c.Flags().IntSliceVar(&reservedList, "reserved", nil,
		"ordinals excluded from every role (default from profile)")
	c.Flags().StringVar(&configPath, "config", "",
		"YAML probe profile overriding the built-in defaults")

	c.Flags().StringVar(&simJTAG, "sim-jtag", "2,3,4,5",
		"simulated JTAG target pins as tck,tms,tdi,tdo (empty = none)")
	c.Flags().StringVar(&simSWD, "sim-swd", "6,7",
		"simulated SWD target pins as clk,dio (empty = none)")
	c.Flags().Uint32Var(&simID, "sim-id", 0x4BA00477,
		"identification code of the simulated JTAG target")
	c.Flags().BoolVar(&simBypass, "sim-bypass", false,
		"simulated JTAG target has no identification register")
}

// loadProbeConfig builds the search configuration: optional YAML profile
// over the defaults, then command-line overrides on top.
func loadProbeConfig(c *cobra.Command) (*probe.Config, error) {
	cfg := probe.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = probe.LoadConfig(configPath); err != nil {
			return nil, err
		}
	}
	if c.Flags().Changed("pins") {
		cfg.PinCount = pinCount
	}
	if c.Flags().Changed("reserved") {
		cfg.ReservedPins = nil
		for _, r := range reservedList {
			cfg.ReservedPins = append(cfg.ReservedPins, gpio.Pin(r))
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openPort opens the selected GPIO driver. The returned close function
// releases the hardware and surfaces any error latched during the scan.
func openPort(cfg *probe.Config) (gpio.Port, func() error, error) {
	switch portType {
	case "sim":
		bench, err := buildBench(cfg)
		if err != nil {
			return nil, nil, err
		}
		return bench, func() error { return nil }, nil
	case "rpio":
		p, err := gpio.OpenRPiPort(gpio.DefaultHeaderMap, cfg.ReservedPins)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	case "ftdi":
		p, err := gpio.OpenFTDIPort(cfg.ReservedPins)
		if err != nil {
			return nil, nil, err
		}
		return p, func() error {
			if err := p.Err(); err != nil {
				p.Close()
				return err
			}
			return p.Close()
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown port type %q (want sim, rpio or ftdi)", portType)
	}
}

// buildBench wires the simulated targets selected by the sim flags.
func buildBench(cfg *probe.Config) (*target.Bench, error) {
	var devices []target.Device
	if simJTAG != "" {
		pins, err := parsePins(simJTAG, 4)
		if err != nil {
			return nil, fmt.Errorf("--sim-jtag: %w", err)
		}
		if err := checkBenchPins(pins, cfg.PinCount); err != nil {
			return nil, fmt.Errorf("--sim-jtag: %w", err)
		}
		if simBypass {
			devices = append(devices, target.NewBypassDevice(pins[0], pins[1], pins[2], pins[3]))
		} else {
			devices = append(devices, target.NewIDCodeDevice(pins[0], pins[1], pins[2], pins[3], simID))
		}
	}
	if simSWD != "" {
		pins, err := parsePins(simSWD, 2)
		if err != nil {
			return nil, fmt.Errorf("--sim-swd: %w", err)
		}
		if err := checkBenchPins(pins, cfg.PinCount); err != nil {
			return nil, fmt.Errorf("--sim-swd: %w", err)
		}
		devices = append(devices, target.NewSWDDevice(pins[0], pins[1], 0x2BA01477))
	}
	return target.NewBench(cfg.PinCount, devices...), nil
}

func checkBenchPins(pins []gpio.Pin, count int) error {
	for _, p := range pins {
		if int(p) >= count {
			return fmt.Errorf("pin %d outside the %d-pin bench", p, count)
		}
	}
	return nil
}

func parsePins(s string, want int) ([]gpio.Pin, error) {
	parts := strings.Split(s, ",")
	if len(parts) != want {
		return nil, fmt.Errorf("want %d comma-separated pins, got %q", want, s)
	}
	pins := make([]gpio.Pin, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 255 {
			return nil, fmt.Errorf("bad pin %q", part)
		}
		pins[i] = gpio.Pin(n)
	}
	return pins, nil
}
