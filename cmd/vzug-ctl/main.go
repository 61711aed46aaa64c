// Vzug-ctl is a command line utility for V-ZUG household appliances.
//
// It talks to the appliance's LAN HTTP API to show device state, firmware
// update status and the configuration tree, to change device commands and
// programs, and to trigger firmware updates. A live dashboard is
// available via 'vzug-ctl watch'.
//
// Usage:
//
//	vzug-ctl [command] [flags]
//
// See 'vzug-ctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/frimtec/hass-vzug/internal/logging"
	"github.com/frimtec/hass-vzug/internal/version"
)

func main() {
	if err := logging.InitializeFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vzug-ctl",
	Short: "V-ZUG Appliance Control Utility",
	Long: `A command line utility for V-ZUG household appliances.

Reads device state, firmware update status and the configuration tree
over the appliance's LAN HTTP API, changes device commands and programs,
and triggers firmware updates.

Devices are addressed by base URL (--device http://192.168.1.50) or by a
nickname stored in the configuration registry.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vzug-ctl %s (commit: %s)\n", version.Version, version.Commit)
	},
}
