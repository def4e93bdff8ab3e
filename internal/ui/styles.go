package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
)

// Colors - a warm trail palette
var (
	primaryColor   = lipgloss.Color("#D08770")
	secondaryColor = lipgloss.Color("#EBCB8B")
	dimColor       = lipgloss.Color("#6272A4")
	textColor      = lipgloss.Color("#F8F8F2")
	errorColor     = lipgloss.Color("#FF5555")
	successColor   = lipgloss.Color("#50FA7B")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	statusStyle = lipgloss.NewStyle().
			Foreground(textColor)

	countStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	errorTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)

	toastStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(successColor).
			Foreground(successColor).
			Padding(0, 1)
)

// ASCII art logo
const logo = `
 █ █ █ █▀▀ █▀ ▀█▀ █ █ █ ▄▀█ █▀█ █▀▄
 ▀▄▀▄▀ ██▄ ▄█  █  ▀▄▀▄▀ █▀█ █▀▄ █▄▀
`

// Markdown styles accepted by ui.notes-style.
const (
	NotesStyleAuto  = "auto"
	NotesStyleDark  = "dark"
	NotesStyleLight = "light"
	NotesStylePlain = "plain"
)

// hasDarkBackground is a function variable to allow overriding in tests.
var hasDarkBackground = termenv.HasDarkBackground

// resolveNotesStyle maps the configured style onto a glamour standard style.
func resolveNotesStyle(format string) string {
	style := strings.ToLower(strings.TrimSpace(format))
	switch style {
	case "", NotesStyleAuto:
		if hasDarkBackground() {
			return NotesStyleDark
		}
		return NotesStyleLight
	default:
		return style
	}
}

// buildMarkdownRenderer returns a release-notes renderer for the given width.
// Unknown styles and render errors fall back to plain word wrapping.
func buildMarkdownRenderer(format string, width int) func(string) string {
	fallback := func(input string) string {
		return wordwrap.String(input, width)
	}

	style := resolveNotesStyle(format)
	if style == NotesStylePlain {
		return fallback
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fallback
	}
	return func(input string) string {
		out, err := renderer.Render(input)
		if err != nil {
			return fallback(input)
		}
		return strings.TrimSpace(out)
	}
}
