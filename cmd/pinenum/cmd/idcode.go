package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePinEnum/pkg/probe"
)

var idcodeCmd = &cobra.Command{
	Use:   "idcode",
	Short: "Search for a target that reports an identification register",
	Long: `Search (clock, mode-select, data-out) triples for a target that clocks
its identification register out after a TAP reset, then hunt for the
data-in pin with an injected pattern.

Examples:
  pinenum idcode --port sim
  pinenum idcode --port rpio --pins 16 --reserved 0,1`,
	RunE: runIDCode,
}

func init() {
	rootCmd.AddCommand(idcodeCmd)
	addPortFlags(idcodeCmd)
}

func runIDCode(cmd *cobra.Command, args []string) error {
	cfg, err := loadProbeConfig(cmd)
	if err != nil {
		return err
	}
	port, closePort, err := openPort(cfg)
	if err != nil {
		return err
	}

	printIDMatches(cmd.OutOrStdout(), probe.FindIDCode(port, cfg))

	if err := closePort(); err != nil {
		return fmt.Errorf("closing port: %w", err)
	}
	return nil
}
