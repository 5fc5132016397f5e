package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePinEnum/pkg/probe"
)

var (
	// Flags for scan command
	scanInteractive bool
	scanEcho        bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run all three debug-port searches",
	Long: `Run the identification-register, bypass-register and SWD searches in
sequence over the candidate pins and report every accepted assignment.

The searches are independent: a target may answer one, several, or none of
them. No matches is a normal outcome, not an error.

Examples:
  # Full scan against the simulated bench
  pinenum scan --port sim

  # Raspberry Pi header, sixteen probe channels, link pins excluded
  pinenum scan --port rpio --pins 16 --reserved 0,1

  # FT232R bitbang adapter, ask about verbosity first
  pinenum scan --port ftdi --pins 8 --interactive

  # Check the probe link afterwards by echoing typed bytes
  pinenum scan --port sim --echo`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	addPortFlags(scanCmd)

	scanCmd.Flags().BoolVarP(&scanInteractive, "interactive", "i", false,
		"ask about verbose output before scanning")
	scanCmd.Flags().BoolVar(&scanEcho, "echo", false,
		"after scanning, echo input bytes back (probe link check)")
}

func runScan(cmd *cobra.Command, args []string) error {
	if scanInteractive {
		promptVerbosity(cmd)
	}

	cfg, err := loadProbeConfig(cmd)
	if err != nil {
		return err
	}
	port, closePort, err := openPort(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "=== JTAG identification-register search ===")
	printIDMatches(out, probe.FindIDCode(port, cfg))

	fmt.Fprintln(out, "=== JTAG bypass-register search ===")
	printBypassMatches(out, probe.FindBypass(port, cfg))

	fmt.Fprintln(out, "=== SWD search ===")
	printSWDMatches(out, probe.FindSWD(port, cfg))

	if err := closePort(); err != nil {
		return fmt.Errorf("closing port: %w", err)
	}

	if scanEcho {
		return echoLoop(cmd)
	}
	return nil
}

func printIDMatches(out io.Writer, matches []probe.IDCodeMatch) {
	if len(matches) == 0 {
		fmt.Fprintln(out, "no identification-register candidates found")
		return
	}
	for _, m := range matches {
		fmt.Fprintf(out, "FOUND %s  word 0x%08X (%d bits set)\n",
			m.Pins, m.Word, probe.PopCount32(m.Word))
	}
}

func printBypassMatches(out io.Writer, matches []probe.BypassMatch) {
	if len(matches) == 0 {
		fmt.Fprintln(out, "no bypass-register candidates found")
		return
	}
	for _, m := range matches {
		fmt.Fprintf(out, "FOUND %s  word 0x%08X\n", m.Pins, m.Word)
	}
}

func printSWDMatches(out io.Writer, matches []probe.SWDMatch) {
	if len(matches) == 0 {
		fmt.Fprintln(out, "no SWD candidates found")
		return
	}
	for _, m := range matches {
		fmt.Fprintf(out, "FOUND %s  word 0x%08X\n", m.Pins, m.Word)
	}
}

// promptVerbosity asks once whether to log each candidate assignment; a
// scan over many pins is silent for minutes otherwise.
func promptVerbosity(cmd *cobra.Command) {
	fmt.Fprint(cmd.OutOrStdout(), "Log every candidate assignment as it is tried? [y/N] ")
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if s := strings.TrimSpace(line); s == "y" || s == "Y" {
		verbose = true
		configureLogging()
	}
}

// echoLoop reads bytes until EOF and prints each one back in decimal and
// hex, a quick sanity check that the link to the probe is not mangling
// characters.
func echoLoop(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "echo: type characters, EOF ends")
	r := bufio.NewReader(cmd.InOrStdin())
	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		fmt.Fprintf(out, "%3d 0x%02X\n", b, b)
	}
}
