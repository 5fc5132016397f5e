package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/OpenTraceLab/OpenTracePinEnum/pkg/probe"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pinenum",
	Short: "Debug-port pin enumerator for unknown targets",
	Long: `Brute-force enumeration of JTAG and SWD debug-port wiring.

Connect the probe header to a set of candidate pads on the target, then let
the finders try every pin-role assignment while watching for protocol
responses: an identification register clocked out after a TAP reset, a
bypass register echoing an injected pattern, or an SWD port answering an
identification read.

Examples:
  pinenum scan --port sim                            # Full scan against the simulated bench
  pinenum scan --port rpio --pins 16 --reserved 0,1  # Raspberry Pi header
  pinenum idcode --port ftdi --pins 8                # FT232R bitbang, ID search only
  pinenum scan -v --port sim --sim-bypass            # Log every candidate tried`,
	Version: "0.9.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		configureLogging()
	}
}

// configureLogging installs the CLI logger into the probe package. Verbose
// mode surfaces every candidate assignment at Debug level.
func configureLogging() {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&prefixed.TextFormatter{FullTimestamp: true})
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	probe.SetLogger(l)
}
