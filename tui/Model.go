// Package tui runs a Driver inside an interactive terminal program. The
// program's tick messages pace the Driver and a keypress stops it.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samuelfneumann/snakelearn/experiment"
	"github.com/samuelfneumann/snakelearn/render"
)

// minInterval paces a Driver configured to tick back to back, so that
// the terminal stays responsive
const minInterval = time.Millisecond

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type tickMsg time.Time

// Model is a bubbletea model which ticks a Driver and draws its board
type Model struct {
	driver   *experiment.Driver
	logger   *slog.Logger
	start    time.Time
	lastErr  error
	quitting bool
}

// New returns a Model for the Driver d. Checkpoint errors are logged to
// logger and shown below the board.
func New(d *experiment.Driver, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	return Model{driver: d, logger: logger, start: time.Now()}
}

func (m Model) tickCmd() tea.Cmd {
	interval := m.driver.Interval()
	if interval < minInterval {
		interval = minInterval
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the tick loop
func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

// Update ticks the Driver on every tick message and quits on q, esc or
// ctrl+c, or when the Driver reaches its step limit
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	case tickMsg:
		finished, err := m.driver.Tick()
		if err != nil {
			m.lastErr = err
			m.logger.Error("checkpoint failed", "err", err)
		}
		if finished {
			m.quitting = true
			return m, tea.Quit
		}
		return m, m.tickCmd()
	}
	return m, nil
}

// View draws the board and the Driver's statistics
func (m Model) View() string {
	stats := m.driver.Stats()

	var b strings.Builder
	b.WriteString(titleStyle.Render("snakelearn"))
	b.WriteString("\n")
	b.WriteString(render.Styled(m.driver.Environment().Snapshot()))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Steps:        %d\n", stats.Steps))
	b.WriteString(fmt.Sprintf("Episodes:     %d\n", stats.Episodes))
	b.WriteString(fmt.Sprintf("Return:       %.0f (last %.0f, best %.0f)\n",
		stats.EpisodeReturn, stats.LastReturn, stats.BestReturn))
	b.WriteString(fmt.Sprintf("Food:         %d\n", stats.EpisodeFood))
	b.WriteString(fmt.Sprintf("Best length:  %d\n", stats.BestLength))
	b.WriteString(fmt.Sprintf("TD error:     %.4f\n", stats.TdError))
	b.WriteString(fmt.Sprintf("Elapsed:      %s\n",
		time.Since(m.start).Round(time.Second)))

	if m.lastErr != nil {
		b.WriteString(errStyle.Render(m.lastErr.Error()))
		b.WriteString("\n")
	}
	if m.quitting {
		b.WriteString("\nSaving...\n")
	} else {
		b.WriteString(helpStyle.Render("\nPress q to quit."))
		b.WriteString("\n")
	}
	return b.String()
}

// Run runs the Driver in a terminal program until the user quits, ctx
// is cancelled or the Driver finishes, then closes the Driver so that the
// agent is saved exactly once
func Run(ctx context.Context, d *experiment.Driver, logger *slog.Logger) error {
	p := tea.NewProgram(New(d, logger), tea.WithAltScreen(),
		tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() == nil {
		err = fmt.Errorf("run: %w", err)
	} else {
		err = nil
	}
	return errors.Join(err, d.Close())
}
