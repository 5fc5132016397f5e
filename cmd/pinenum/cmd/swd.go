package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePinEnum/pkg/probe"
)

var swdCmd = &cobra.Command{
	Use:   "swd",
	Short: "Search for a two-wire SWD debug port",
	Long: `Search (clock, data) pairs by sending the JTAG-to-SWD switch sequence
and an identification-read request, then listening for a response on the
released data line.

Examples:
  pinenum swd --port sim
  pinenum swd --port ftdi --pins 8`,
	RunE: runSWD,
}

func init() {
	rootCmd.AddCommand(swdCmd)
	addPortFlags(swdCmd)
}

func runSWD(cmd *cobra.Command, args []string) error {
	cfg, err := loadProbeConfig(cmd)
	if err != nil {
		return err
	}
	port, closePort, err := openPort(cfg)
	if err != nil {
		return err
	}

	printSWDMatches(cmd.OutOrStdout(), probe.FindSWD(port, cfg))

	if err := closePort(); err != nil {
		return fmt.Errorf("closing port: %w", err)
	}
	return nil
}
