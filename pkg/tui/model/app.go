// Package model implements the inline progress view shown while a run is
// active. It is purely cosmetic: removing it (plain mode) changes no
// measured value and no summary text.
package model

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/modoterra/rebound/pkg/core"
)

// SpinnerInterval is the frame interval of the progress spinner.
const SpinnerInterval = 100 * time.Millisecond

// CycleStartedMsg announces that restart cycle Index of Total has begun.
type CycleStartedMsg struct {
	Index int
	Total int
}

// CycleDoneMsg carries one completed measurement.
type CycleDoneMsg struct {
	Measurement core.Measurement
}

// RunDoneMsg ends the program with the final result or error.
type RunDoneMsg struct {
	Result core.RunResult
	Err    error
}

// App is the root Bubble Tea model.
type App struct {
	spinner     spinner.Model
	total       int
	current     int
	done        []core.Measurement
	result      core.RunResult
	finished    bool
	interrupted bool
	err         error
}

// New creates the progress model for a run of total cycles.
func New(total int) App {
	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"⢿", "⣻", "⣽", "⣾", "⣷", "⣯", "⣟", "⡿"},
		FPS:    SpinnerInterval,
	}
	sp.Style = spinnerStyle
	return App{spinner: sp, total: total}
}

// Init starts the spinner ticker.
func (a App) Init() tea.Cmd { return a.spinner.Tick }

// Update handles run progress messages and spinner ticks.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			a.interrupted = true
			return a, tea.Quit
		}
		return a, nil

	case CycleStartedMsg:
		a.current = msg.Index
		a.total = msg.Total
		return a, nil

	case CycleDoneMsg:
		a.done = append(a.done, msg.Measurement)
		a.current = 0
		return a, nil

	case RunDoneMsg:
		a.finished = true
		a.result = msg.Result
		a.err = msg.Err
		return a, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}
	return a, nil
}

// Interrupted reports whether the user aborted the run.
func (a App) Interrupted() bool { return a.interrupted }

// Err returns the run error, if any.
func (a App) Err() error { return a.err }

// Result returns the final run result.
func (a App) Result() core.RunResult { return a.result }
