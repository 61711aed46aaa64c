package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/frimtec/hass-vzug/internal/poll"
)

// snapshotMsg delivers a fresh poller snapshot to the model.
type snapshotMsg poll.Snapshot

// PollerStoppedMsg tells the dashboard that the background poller ended.
// The watch command sends it when poll.Poller.Run returns.
type PollerStoppedMsg struct {
	Err error
}

// WatchModel renders a live dashboard for one appliance, fed by a
// running poll.Poller.
type WatchModel struct {
	updates <-chan poll.Snapshot

	snapshot poll.Snapshot
	spinner  spinner.Model
	width    int
	err      error
	quitting bool
}

// NewWatchModel creates the dashboard model for an already-running poller.
func NewWatchModel(poller *poll.Poller) WatchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(PrimaryColor)

	return WatchModel{
		updates:  poller.Subscribe(),
		snapshot: poller.Latest(),
		spinner:  sp,
		width:    GetTerminalWidth(),
	}
}

// Init implements tea.Model.
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForSnapshot())
}

// waitForSnapshot blocks on the poller subscription and turns the next
// snapshot into a message.
func (m WatchModel) waitForSnapshot() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		return snapshotMsg(<-updates)
	}
}

// Update implements tea.Model.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.width > MaxContentWidth {
			m.width = MaxContentWidth
		}

	case snapshotMsg:
		m.snapshot = poll.Snapshot(msg)
		return m, m.waitForSnapshot()

	case PollerStoppedMsg:
		m.err = msg.Err
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m WatchModel) View() string {
	if m.quitting {
		if m.err != nil {
			return ErrorMessageStyle.Render("watch stopped: "+m.err.Error()) + "\n"
		}
		return ""
	}

	var b strings.Builder

	title := m.snapshot.Meta.ModelDescription
	if title == "" {
		title = "V-ZUG appliance"
	}
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("MAC " + m.snapshot.Meta.MacAddress))
	b.WriteString("\n\n")

	b.WriteString(m.renderState())
	b.WriteString("\n")
	b.WriteString(m.renderUpdates())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("q: quit"))
	b.WriteString("\n")

	return b.String()
}

func (m WatchModel) renderState() string {
	if m.snapshot.State == nil {
		return fmt.Sprintf(" %s waiting for first state snapshot...\n", m.spinner.View())
	}
	state := m.snapshot.State

	var b strings.Builder

	program := state.Device.Program
	if program == "" {
		program = "-"
	}
	programStyle := ActiveStyle
	if state.Device.IsInactive() {
		programStyle = IdleStyle
	}
	b.WriteString(KeyStyle.Render("Program:"))
	b.WriteString(programStyle.Render(program))
	b.WriteString("\n")

	status := state.Device.Status
	if status == "" {
		status = "-"
	}
	b.WriteString(KeyStyle.Render("Status:"))
	b.WriteString(ValueStyle.Render(status))
	b.WriteString("\n")

	if end := state.Device.ProgramEnd.End; end != "" {
		b.WriteString(KeyStyle.Render("Ends:"))
		b.WriteString(ValueStyle.Render(end))
		b.WriteString("\n")
	}

	b.WriteString(KeyStyle.Render("Energy:"))
	b.WriteString(ValueStyle.Render(fmt.Sprintf("%.1f kWh total, %.1f kWh avg", state.Eco.Energy.Total, state.Eco.Energy.Average)))
	b.WriteString("\n")
	b.WriteString(KeyStyle.Render("Water:"))
	b.WriteString(ValueStyle.Render(fmt.Sprintf("%.0f l total, %.0f l avg", state.Eco.Water.Total, state.Eco.Water.Average)))
	b.WriteString("\n")

	b.WriteString(KeyStyle.Render("Fetched:"))
	b.WriteString(SubtitleStyle.Render(state.DeviceFetchedAt.Local().Format("15:04:05")))
	b.WriteString("\n")

	if len(state.Notifications) > 0 {
		b.WriteString("\n")
		b.WriteString(SubtitleStyle.Render("Notifications"))
		b.WriteString("\n")
		limit := min(len(state.Notifications), 3)
		for _, n := range state.Notifications[:limit] {
			line := NotificationDateStyle.Render(n.Date+" ") + n.Message
			b.WriteString(NotificationStyle.Render(line))
			b.WriteString("\n")
		}
	}

	return SectionBorderStyle(m.width).Render(strings.TrimRight(b.String(), "\n"))
}

func (m WatchModel) renderUpdates() string {
	update := m.snapshot.Update
	if update == nil {
		return ""
	}

	switch {
	case update.Update.AIUpdateAvailable || update.Update.HHGUpdateAvailable:
		return UpdateStyle.Render(" Firmware update available") + "\n"
	case update.Update.Status != "" && update.Update.Status != "idle":
		return UpdateStyle.Render(" Update: "+update.Update.Status) + "\n"
	}
	return ""
}
