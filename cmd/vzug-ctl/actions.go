package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// Write operations. These never substitute defaults: a failed write is
// reported as an error, not a fabricated success.

func init() {
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(doCmd)
	rootCmd.AddCommand(setProgramCmd)
	rootCmd.AddCommand(checkUpdateCmd)
	rootCmd.AddCommand(updateCmd)
}

// setCmd writes a device command value
var setCmd = &cobra.Command{
	Use:   "set <command> <value>",
	Short: "Set a device command value",
	Long: `Write a new value to a device command from the configuration
tree. Use 'vzug-ctl config' to list commands and their legal values.`,
	Example: `  # Switch the steam finish option on
  vzug-ctl set SteamFinish true`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		if err := client.SetCommand(cmd.Context(), args[0], args[1]); err != nil {
			return fmt.Errorf("failed to set %s: %w", args[0], err)
		}
		fmt.Printf("Set %s = %s\n", args[0], args[1])
		return nil
	},
}

// doCmd triggers an action-type device command
var doCmd = &cobra.Command{
	Use:   "do <command>",
	Short: "Trigger an action command",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		if err := client.DoCommandAction(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to trigger %s: %w", args[0], err)
		}
		fmt.Printf("Triggered %s\n", args[0])
		return nil
	},
}

// setProgramCmd selects a program with optional option overrides
var setProgramCmd = &cobra.Command{
	Use:   "set-program <id> [option=value ...]",
	Short: "Select a program, optionally overriding options",
	Long: `Select a program by id. Option overrides are given as
option=value pairs; values are sent as JSON, so 'true', '42' and
'"quoted"' keep their types and anything else is sent as a string.

Use 'vzug-ctl programs' for the known program ids and options.`,
	Example: `  # Select program 50 as-is
  vzug-ctl set-program 50

  # Select program 50 with steam finish enabled
  vzug-ctl set-program 50 steamfinish=true`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		programID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid program id %q", args[0])
		}

		options := make(map[string]any, len(args)-1)
		for _, arg := range args[1:] {
			name, value, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("invalid option %q (expected option=value)", arg)
			}
			options[name] = parseOptionValue(value)
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		if err := client.SetProgram(cmd.Context(), programID, options); err != nil {
			return fmt.Errorf("failed to set program %d: %w", programID, err)
		}
		fmt.Printf("Selected program %d\n", programID)
		return nil
	},
}

// parseOptionValue keeps JSON-typed values (booleans, numbers, quoted
// strings) and falls back to a plain string for everything else.
func parseOptionValue(value string) any {
	var v any
	if err := json.Unmarshal([]byte(value), &v); err == nil {
		return v
	}
	return value
}

// checkUpdateCmd asks the appliance to look for new firmware
var checkUpdateCmd = &cobra.Command{
	Use:   "check-update",
	Short: "Ask the appliance to check for new firmware",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		if err := client.CheckForUpdates(cmd.Context()); err != nil {
			return fmt.Errorf("update check failed: %w", err)
		}
		fmt.Println("Update check requested. See 'vzug-ctl updates' for results.")
		return nil
	},
}

// updateCmd starts a firmware update
var updateCmd = &cobra.Command{
	Use:   "update <ai|hhg>",
	Short: "Start a firmware update",
	Long: `Start an update of either the appliance-intelligence firmware
(ai) or the household-gateway firmware (hhg). The appliance performs the
update on its own; progress is visible via 'vzug-ctl updates'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		switch args[0] {
		case "ai":
			err = client.DoAIUpdate(cmd.Context())
		case "hhg":
			err = client.DoHHGUpdate(cmd.Context())
		default:
			return fmt.Errorf("unknown update target %q (expected ai or hhg)", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to start %s update: %w", args[0], err)
		}
		fmt.Printf("Started %s firmware update\n", args[0])
		return nil
	},
}
