package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/frimtec/hass-vzug/internal/api"
	"github.com/frimtec/hass-vzug/internal/config"
)

// Common command flags
var (
	deviceFlag   string
	usernameFlag string
	passwordFlag string
	outputFormat string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&deviceFlag, "device", "", "Device base URL, MAC address or nickname")
	rootCmd.PersistentFlags().StringVar(&usernameFlag, "username", "", "Basic-auth username (password is prompted)")
	rootCmd.PersistentFlags().StringVar(&passwordFlag, "password", "", "Basic-auth password (prefer the interactive prompt)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, json)")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(updatesCmd)
	rootCmd.AddCommand(metaCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(programsCmd)
}

// newClient resolves the target device and builds an API client for it.
func newClient() (*api.Client, error) {
	baseURL, username, err := resolveDevice()
	if err != nil {
		return nil, err
	}

	var opts []api.Option
	if username != "" {
		password := passwordFlag
		if password == "" {
			password, err = promptPassword(username)
			if err != nil {
				return nil, err
			}
		}
		opts = append(opts, api.WithCredentials(api.Credentials{Username: username, Password: password}))
	}

	return api.NewClient(baseURL, opts...), nil
}

// resolveDevice turns the --device flag (or the registry default) into a
// base URL plus the username to authenticate with, if any.
func resolveDevice() (baseURL, username string, err error) {
	registry, err := config.LoadRegistry()
	if err != nil {
		return "", "", err
	}

	key := deviceFlag
	if key == "" {
		key = registry.Preferences.DefaultDevice
	}
	if key == "" {
		return "", "", fmt.Errorf("no device specified (use --device or set default_device in %s)", configPathHint())
	}

	// A URL bypasses the registry entirely.
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key, usernameFlag, nil
	}

	device := registry.FindDevice(key)
	if device == nil {
		return "", "", fmt.Errorf("unknown device %q (not a URL and not in the registry)", key)
	}
	if device.BaseURL == "" {
		return "", "", fmt.Errorf("device %q has no base_url in the registry", key)
	}

	username = usernameFlag
	if username == "" {
		username = device.Username
	}
	return device.BaseURL, username, nil
}

func configPathHint() string {
	path, err := config.GetConfigPath()
	if err != nil {
		return "the config file"
	}
	return path
}

func promptPassword(username string) (string, error) {
	fmt.Fprintf(os.Stderr, "Password for %s: ", username)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(password), nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// statusCmd shows the device state aggregate
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show device state",
	Long: `Fetch and display the device state snapshot: current program,
status text, program end, eco metrics and recent push notifications.

Transiently unreachable endpoints degrade to empty fields instead of
failing the whole snapshot.`,
	Example: `  # Show state of a device by URL
  vzug-ctl status --device http://192.168.1.50

  # JSON output for scripting
  vzug-ctl status --device dishwasher --format json`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	state, err := client.AggregateState(cmd.Context(), true)
	if err != nil {
		return fmt.Errorf("failed to fetch device state: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(state)
	}

	fmt.Printf("Device:   %s (serial %s)\n", orDash(state.Device.DeviceName), orDash(state.Device.Serial))
	active := "active"
	if state.Device.IsInactive() {
		active = "inactive"
	}
	fmt.Printf("Program:  %s (%s)\n", orDash(state.Device.Program), active)
	fmt.Printf("Status:   %s\n", orDash(state.Device.Status))
	if state.Device.ProgramEnd.End != "" {
		fmt.Printf("Ends:     %s (%s)\n", state.Device.ProgramEnd.End, state.Device.ProgramEnd.EndType)
	}
	fmt.Printf("ZH mode:  %d\n", state.ZHMode)
	fmt.Printf("Energy:   %.1f kWh total / %.1f kWh avg\n", state.Eco.Energy.Total, state.Eco.Energy.Average)
	fmt.Printf("Water:    %.0f l total / %.0f l avg\n", state.Eco.Water.Total, state.Eco.Water.Average)
	fmt.Printf("Fetched:  %s\n", state.DeviceFetchedAt.Local().Format("2006-01-02 15:04:05"))

	if len(state.Notifications) > 0 {
		fmt.Println("\nNotifications:")
		for _, n := range state.Notifications {
			fmt.Printf("  %s  %s\n", n.Date, n.Message)
		}
	}
	return nil
}

// updatesCmd shows the firmware update aggregate
var updatesCmd = &cobra.Command{
	Use:   "updates",
	Short: "Show firmware update status",
	RunE:  runUpdates,
}

func runUpdates(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	update, err := client.AggregateUpdateStatus(cmd.Context(), true)
	if err != nil {
		return fmt.Errorf("failed to fetch update status: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(update)
	}

	fmt.Printf("Status:          %s\n", orDash(update.Update.Status))
	fmt.Printf("AI update:       %v\n", update.Update.AIUpdateAvailable)
	fmt.Printf("HHG update:      %v\n", update.Update.HHGUpdateAvailable)
	fmt.Printf("Synced:          %v\n", update.Update.Synced)
	fmt.Printf("AI firmware:     %s\n", orDash(update.AiFwVersion.SW))
	fmt.Printf("HHG firmware:    %s\n", orDash(update.HhFwVersion.V))
	for _, component := range update.Update.Components {
		fmt.Printf("  component %s: running=%v available=%v required=%v (download %d%%, install %d%%)\n",
			component.Name, component.Running, component.Available, component.Required,
			component.Progress.Download, component.Progress.Installation)
	}
	return nil
}

// metaCmd shows device identity and optionally saves it to the registry
var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Show device identity (MAC address and model)",
	Long: `Fetch the device identity aggregate. MAC address and model
description are required identity data; failures are reported instead of
silently defaulted.

With --save the device is stored in the configuration registry under its
MAC address, so later commands can address it by nickname.`,
	Example: `  # Show identity
  vzug-ctl meta --device http://192.168.1.50

  # Remember this device as "dishwasher"
  vzug-ctl meta --device http://192.168.1.50 --save --nickname dishwasher`,
	RunE: runMeta,
}

var (
	saveDevice   bool
	nicknameFlag string
)

func init() {
	metaCmd.Flags().BoolVar(&saveDevice, "save", false, "Store the device in the configuration registry")
	metaCmd.Flags().StringVar(&nicknameFlag, "nickname", "", "Nickname to store with --save")
}

func runMeta(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	meta, err := client.AggregateMeta(cmd.Context(), false)
	if err != nil {
		return fmt.Errorf("failed to fetch device identity: %w", err)
	}

	if outputFormat == "json" {
		if err := printJSON(meta); err != nil {
			return err
		}
	} else {
		fmt.Printf("MAC address:  %s\n", meta.MacAddress)
		fmt.Printf("Model:        %s\n", meta.ModelDescription)
	}

	if !saveDevice {
		return nil
	}

	registry, err := config.LoadRegistry()
	if err != nil {
		return err
	}
	device := registry.EnsureDevice(meta.MacAddress)
	device.ModelDescription = meta.ModelDescription
	device.Username = usernameFlag
	if nicknameFlag != "" {
		device.Nickname = nicknameFlag
	}
	registry.UpdateDeviceLastSeen(meta.MacAddress, client.BaseURL())

	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save registry: %w", err)
	}
	fmt.Printf("\nSaved device %s to %s\n", meta.MacAddress, configPathHint())
	return nil
}

// configCmd shows the configuration tree
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the device configuration tree",
	Long: `Walk the full configuration tree: every category with its
description and every command definition within it. There is no partial
result; any fetch failure fails the whole command.`,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	tree, err := client.AggregateConfig(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch configuration tree: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(tree)
	}

	if len(tree) == 0 {
		fmt.Println("Device reports no configuration categories.")
		return nil
	}

	for key, category := range tree {
		fmt.Printf("%s  %s\n", key, category.Description)
		for name, command := range category.Commands {
			alterable := ""
			if command.Alterable {
				alterable = " (alterable)"
			}
			fmt.Printf("  %-24s %-10s value=%s%s\n", name, command.Type, orDash(command.Value), alterable)
			if len(command.Options) > 0 {
				fmt.Printf("  %-24s options: %s\n", "", strings.Join(command.Options, ", "))
			}
		}
	}
	return nil
}

// notificationsCmd lists recent push notifications
var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List recent push notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		notifications, err := client.GetLastPushNotifications(cmd.Context(), false)
		if err != nil {
			return fmt.Errorf("failed to fetch notifications: %w", err)
		}

		if outputFormat == "json" {
			return printJSON(notifications)
		}
		if len(notifications) == 0 {
			fmt.Println("No notifications.")
			return nil
		}
		for _, n := range notifications {
			fmt.Printf("%s  %s\n", n.Date, n.Message)
		}
		return nil
	},
}

// infoCmd shows the household-gateway device info record
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show device info (model, serial, API version)",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		info, err := client.GetDeviceInfo(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch device info: %w", err)
		}

		if outputFormat == "json" {
			return printJSON(info)
		}
		fmt.Printf("Model:        %s (%s)\n", orDash(info.Model), orDash(info.Description))
		fmt.Printf("Type:         %s\n", orDash(info.Type))
		fmt.Printf("Name:         %s\n", orDash(info.Name))
		fmt.Printf("Serial:       %s\n", orDash(info.SerialNumber))
		fmt.Printf("Article:      %s\n", orDash(info.ArticleNumber))
		fmt.Printf("API version:  %s\n", orDash(info.APIVersion))
		fmt.Printf("ZH mode:      %d\n", info.ZHMode)
		return nil
	},
}

// programsCmd lists programs known to the appliance
var programsCmd = &cobra.Command{
	Use:   "programs",
	Short: "List programs and their options",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		programs, err := client.GetProgram(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch programs: %w", err)
		}

		if outputFormat == "json" {
			return printJSON(programs)
		}
		if len(programs) == 0 {
			fmt.Println("No programs reported.")
			return nil
		}
		for _, program := range programs {
			marker := " "
			if program.Info.Status == "selected" {
				marker = "*"
			}
			fmt.Printf("%s %3d  %s\n", marker, program.Info.ID, program.Info.Name)
			for name, option := range program.Options {
				fmt.Printf("      %-16s %s\n", name, describeOption(option))
			}
		}
		return nil
	},
}

func describeOption(option api.ProgramOption) string {
	var parts []string
	if option.Set != nil {
		parts = append(parts, fmt.Sprintf("set=%v", option.Set))
	}
	if option.Min != nil && option.Max != nil {
		parts = append(parts, fmt.Sprintf("range %d..%d", *option.Min, *option.Max))
	}
	if option.Step != nil {
		parts = append(parts, fmt.Sprintf("step %d", *option.Step))
	}
	if len(option.Options) > 0 {
		parts = append(parts, fmt.Sprintf("options %v", option.Options))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
