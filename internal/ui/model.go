// Package ui is the terminal presentation of the install/update flow.
//
// The model never blocks: every tick it asks the flow to poll its download
// task and reads a progress snapshot.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"

	"launcher/internal/orchestrator"
	"launcher/internal/update"
)

const (
	tickInterval  = 100 * time.Millisecond
	toastDuration = 3 * time.Second

	maxPanelWidth  = 80
	minPanelWidth  = 30
	maxNotesHeight = 16
	minNotesHeight = 3
	// panelChrome is the number of rows used around the release notes.
	panelChrome = 16
)

// Flow is the presentation boundary of the orchestrator.
type Flow interface {
	State() orchestrator.State
	Progress() update.ProgressSnapshot
	Release() *update.Release
	Asset() update.Asset
	Err() error
	ConfirmInstallOrUpdate()
	RetryLaunch()
	Exit()
	Poll()
	Done() bool
}

// Options configures the model.
type Options struct {
	// Title is the product name shown in headings.
	Title string
	// NotesStyle is the glamour style for release notes.
	NotesStyle string
}

// writeClipboard is a function variable to allow overriding in tests.
var writeClipboard = clipboard.WriteAll

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the bubbletea model for the launcher.
type Model struct {
	flow Flow
	opts Options
	keys KeyMap

	help     help.Model
	spinner  spinner.Model
	progress progress.Model
	notes    viewport.Model

	notesWidth int
	width      int
	height     int

	toast      string
	toastUntil time.Time
	now        func() time.Time
}

// NewModel creates a model driving flow.
func NewModel(flow Flow, opts Options) *Model {
	if strings.TrimSpace(opts.Title) == "" {
		opts.Title = "Westward"
	}

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithGradient(string(primaryColor), string(secondaryColor)),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	m := &Model{
		flow:     flow,
		opts:     opts,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		spinner:  s,
		progress: p,
		notes:    viewport.New(minPanelWidth, minNotesHeight),
		now:      time.Now,
	}
	m.layout(maxPanelWidth+4, panelChrome+maxNotesHeight)
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tick(),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		m.flow.Poll()
		if m.flow.Done() {
			return m, tea.Quit
		}
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := m.flow.State()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.flow.Exit()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Confirm):
		if state == orchestrator.StateNotInstalled || state == orchestrator.StateUpdateAvailable {
			m.flow.ConfirmInstallOrUpdate()
			if m.flow.Done() {
				return m, tea.Quit
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Launch):
		if state == orchestrator.StateFailedToDownload {
			m.flow.RetryLaunch()
			if m.flow.Done() {
				return m, tea.Quit
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if state == orchestrator.StateFailedToDownload && m.flow.Err() != nil {
			if err := writeClipboard(m.flow.Err().Error()); err != nil {
				m.showToast("Clipboard unavailable.")
			} else {
				m.showToast("Copied error to clipboard.")
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Up, m.keys.Down, m.keys.PageUp, m.keys.PageDown):
		if state != orchestrator.StateUpdateAvailable {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Up):
			m.notes.ScrollUp(1)
		case key.Matches(msg, m.keys.Down):
			m.notes.ScrollDown(1)
		case key.Matches(msg, m.keys.PageUp):
			m.notes.PageUp()
		default:
			m.notes.PageDown()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) showToast(text string) {
	m.toast = text
	m.toastUntil = m.now().Add(toastDuration)
}

// layout sizes the release notes viewport for a terminal of the given size.
func (m *Model) layout(width, height int) {
	panelWidth := clamp(width-4, minPanelWidth, maxPanelWidth)
	m.notes.Width = panelWidth - 6
	m.notes.Height = clamp(height-panelChrome, minNotesHeight, maxNotesHeight)
	m.help.Width = panelWidth - 6
	if m.notesWidth == m.notes.Width {
		return
	}
	m.notesWidth = m.notes.Width
	release := m.flow.Release()
	if release == nil || strings.TrimSpace(release.Body) == "" {
		m.notes.SetContent("")
		return
	}
	render := buildMarkdownRenderer(m.opts.NotesStyle, m.notesWidth)
	m.notes.SetContent(render(release.Body))
}

func (m *Model) View() string {
	body := panelStyle.Render(m.body())
	if m.width <= 0 || m.height <= 0 {
		return body
	}

	f := newFrame(m.width, m.height)
	f.place(body, lipgloss.Center, lipgloss.Center, 0)
	if m.toast != "" && m.now().Before(m.toastUntil) {
		f.place(toastStyle.Render(m.toast), lipgloss.Right, lipgloss.Bottom, 1)
	}
	return f.String()
}

func (m *Model) body() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(strings.Trim(logo, "\n")))
	b.WriteString("\n")

	width := m.notes.Width
	release := m.flow.Release()
	tag := ""
	if release != nil {
		tag = release.TagName
	}

	switch m.flow.State() {
	case orchestrator.StateNotInstalled:
		b.WriteString(statusStyle.Render(ansi.Truncate(fmt.Sprintf("Welcome to the %s Installer", m.opts.Title), width, "…")))
		b.WriteString("\n")
		if label := release.PublishedLabel(); label != "" {
			b.WriteString(subtitleStyle.Render(ansi.Truncate(fmt.Sprintf("Release %s, published %s", tag, label), width, "…")))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(m.helpView(key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "install "+tag)), m.keys.Quit))

	case orchestrator.StateUpdateAvailable:
		headline := fmt.Sprintf("Update available: %s from %s", tag, release.PublishedLabel())
		b.WriteString(statusStyle.Render(ansi.Truncate(headline, width, "…")))
		b.WriteString("\n\n")
		if notes := m.notes.View(); strings.TrimSpace(notes) != "" {
			b.WriteString(notes)
			b.WriteString("\n\n")
		}
		b.WriteString(m.helpView(key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "update to "+tag)), m.keys.Up, m.keys.Quit))

	case orchestrator.StateDownloading:
		b.WriteString(statusStyle.Render(ansi.Truncate("Downloading "+m.flow.Asset().Name, width, "…")))
		b.WriteString("\n\n")
		snap := m.flow.Progress()
		if snap.Determinate {
			b.WriteString(m.progress.ViewAs(snap.Fraction))
			b.WriteString("\n")
		} else {
			b.WriteString(m.spinner.View())
			b.WriteString(" ")
		}
		b.WriteString(countStyle.Render(FormatTransfer(snap)))
		b.WriteString("\n\n")
		b.WriteString(m.helpView(m.keys.Quit))

	case orchestrator.StateFailedToDownload:
		b.WriteString(errorTitleStyle.Render("Failed to download " + m.opts.Title))
		b.WriteString("\n\n")
		if err := m.flow.Err(); err != nil {
			b.WriteString(statusStyle.Render(wordwrap.String(err.Error(), width)))
			b.WriteString("\n\n")
		}
		b.WriteString(m.helpView(m.keys.Launch, m.keys.Copy, m.keys.Quit))
	}

	return b.String()
}

func (m *Model) helpView(bindings ...key.Binding) string {
	return m.help.ShortHelpView(bindings)
}

// FormatTransfer renders the byte counts of a progress snapshot, for example
// "12 MB / 26 MB (46%)" or "12 MB" when the size is unknown.
func FormatTransfer(snap update.ProgressSnapshot) string {
	written := humanize.Bytes(uint64(max(snap.Written, 0)))
	if !snap.Determinate || snap.Total <= 0 {
		return written
	}
	return fmt.Sprintf("%s / %s (%d%%)", written, humanize.Bytes(uint64(snap.Total)), int(snap.Fraction*100))
}

func clamp(value, minValue, maxValue int) int {
	if value < minValue {
		return minValue
	}
	if value > maxValue {
		return maxValue
	}
	return value
}
