// Package ui implements the terminal dashboard for the watch command.
//
// The dashboard is a Bubble Tea model fed by an internal/poll.Poller
// running in the background: every successful aggregate refresh is pushed
// into the model as a message and re-rendered with lipgloss styling. The
// model itself never talks to the device; it only consumes snapshots.
package ui
