package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePinEnum/pkg/probe"
)

var bypassCmd = &cobra.Command{
	Use:   "bypass",
	Short: "Search for a target with a pass-through bypass register",
	Long: `Search full (clock, mode-select, data-out, data-in) assignments for a
target that echoes an injected pattern through its single-bit bypass
register. This finds parts that implement no identification register.

Examples:
  pinenum bypass --port sim --sim-bypass
  pinenum bypass --port rpio --pins 16 --reserved 0,1`,
	RunE: runBypass,
}

func init() {
	rootCmd.AddCommand(bypassCmd)
	addPortFlags(bypassCmd)
}

func runBypass(cmd *cobra.Command, args []string) error {
	cfg, err := loadProbeConfig(cmd)
	if err != nil {
		return err
	}
	port, closePort, err := openPort(cfg)
	if err != nil {
		return err
	}

	printBypassMatches(cmd.OutOrStdout(), probe.FindBypass(port, cfg))

	if err := closePort(); err != nil {
		return fmt.Errorf("closing port: %w", err)
	}
	return nil
}
