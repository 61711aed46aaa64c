package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for the watch dashboard
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - active program, ok states
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors, stale data
	WarningColor = lipgloss.Color("#FFA500") // Orange - updates available
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
)

// Shared styles for the watch dashboard
var (
	// TitleStyle is for the dashboard title (device nickname or model)
	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true).
			PaddingLeft(1)

	// SubtitleStyle is for the base URL and MAC address line
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			PaddingLeft(1)

	// KeyStyle is for detail keys (e.g. "Program:")
	KeyStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(14)

	// ValueStyle is for detail values
	ValueStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// ActiveStyle marks a running program
	ActiveStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	// IdleStyle marks an idle appliance
	IdleStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// UpdateStyle highlights available firmware updates
	UpdateStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	// NotificationStyle is for push notification lines
	NotificationStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				PaddingLeft(2)

	// NotificationDateStyle is for the notification timestamp prefix
	NotificationDateStyle = lipgloss.NewStyle().
				Foreground(MutedColor)

	// ErrorMessageStyle is for error message text
	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)

	// HelpStyle is for the key hint footer
	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			PaddingLeft(1)
)

// SectionBorderStyle returns the border style for dashboard sections
func SectionBorderStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2). // Account for border characters
		Padding(0, 1)
}

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}
