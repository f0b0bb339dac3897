package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"safecalc/internal/core/breathing"
)

// sessionStyles colours breathe output when it goes to a terminal.
type sessionStyles struct {
	enabled bool
	phases  map[breathing.Phase]lipgloss.Style
	summary lipgloss.Style
	muted   lipgloss.Style
}

func newSessionStyles(out io.Writer) sessionStyles {
	file, ok := out.(*os.File)
	if !ok || !(isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())) {
		return sessionStyles{}
	}
	return sessionStyles{
		enabled: true,
		phases: map[breathing.Phase]lipgloss.Style{
			breathing.PhaseIn:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
			breathing.PhaseHold: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			breathing.PhaseOut:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
			breathing.PhaseRest: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		},
		summary: lipgloss.NewStyle().Bold(true),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

func (styles sessionStyles) phase(phase breathing.Phase, text string) string {
	if !styles.enabled {
		return text
	}
	style, ok := styles.phases[phase]
	if !ok {
		return text
	}
	return style.Render(text)
}

func (styles sessionStyles) headline(text string) string {
	if !styles.enabled {
		return text
	}
	return styles.summary.Render(text)
}

func (styles sessionStyles) dim(text string) string {
	if !styles.enabled {
		return text
	}
	return styles.muted.Render(text)
}
