package ui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"launcher/internal/debug"
)

// Run shows the launcher screens until flow reaches an outcome. A program
// that ends early (killed, interrupted) counts as exit.
func Run(ctx context.Context, flow Flow, opts Options, in io.Reader, out io.Writer) error {
	model := NewModel(flow, opts)
	programOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	}
	if in != nil {
		programOpts = append(programOpts, tea.WithInput(in))
	}
	if out != nil {
		programOpts = append(programOpts, tea.WithOutput(out))
	}

	_, err := tea.NewProgram(model, programOpts...).Run()
	if !flow.Done() {
		debug.Log("ui closed before an outcome, exiting")
		flow.Exit()
	}
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
