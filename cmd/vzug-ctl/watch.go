package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/frimtec/hass-vzug/internal/config"
	"github.com/frimtec/hass-vzug/internal/poll"
	"github.com/frimtec/hass-vzug/internal/ui"
)

var stateIntervalFlag int

func init() {
	watchCmd.Flags().IntVar(&stateIntervalFlag, "interval", 0, "State poll interval in seconds (default from config)")
	rootCmd.AddCommand(watchCmd)
}

// watchCmd runs the live dashboard
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard for a device",
	Long: `Poll the device in the background and render a live dashboard:
current program, status, eco metrics, notifications and firmware update
hints. Device state refreshes every poll interval; firmware and
configuration data refresh rarely.`,
	Example: `  # Watch a device with the default 30s interval
  vzug-ctl watch --device dishwasher

  # Faster polling
  vzug-ctl watch --device http://192.168.1.50 --interval 10`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	registry, err := config.LoadRegistry()
	if err != nil {
		return err
	}

	intervals := poll.DefaultIntervals()
	if registry.Preferences.StateInterval > 0 {
		intervals.State = time.Duration(registry.Preferences.StateInterval) * time.Second
	}
	if stateIntervalFlag > 0 {
		intervals.State = time.Duration(stateIntervalFlag) * time.Second
	}

	poller := poll.New(client, intervals)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	program := tea.NewProgram(ui.NewWatchModel(poller), tea.WithAltScreen())

	go func() {
		err := poller.Run(ctx)
		if ctx.Err() != nil {
			// Normal shutdown; the dashboard is already gone.
			return
		}
		program.Send(ui.PollerStoppedMsg{Err: err})
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
