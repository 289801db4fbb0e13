package model

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/modoterra/rebound/pkg/core"
)

var (
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	durationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	sepStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// View renders completed cycles, the active spinner line, and the final
// separator and summary once the run has finished. Errors are not
// rendered here; the CLI reports them after the program exits.
func (a App) View() string {
	var b strings.Builder

	for _, m := range a.done {
		fmt.Fprintf(&b, "Restart #%d: %s\n", m.Index, durationStyle.Render(core.FormatDuration(m.Elapsed)))
	}

	if !a.finished && a.current > 0 {
		fmt.Fprintf(&b, "Restart #%d: %s\n", a.current, a.spinner.View())
	}

	if a.finished && a.err == nil && !a.interrupted {
		b.WriteString(sepStyle.Render(strings.Repeat("_", 40)) + "\n")
		b.WriteString(a.result.Summary() + "\n")
	}

	return b.String()
}
