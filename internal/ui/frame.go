package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/cellbuf"
)

// frame is one full-screen view composed on a cell buffer. Blocks placed later
// paint over earlier ones, so the toast floats above the panel.
type frame struct {
	screen *cellbuf.Screen
	writer *cellbuf.ScreenWriter
	width  int
	height int
}

func newFrame(width, height int) *frame {
	width = max(width, 1)
	height = max(height, 1)
	screen := cellbuf.NewScreen(io.Discard, width, height, &cellbuf.ScreenOptions{})
	f := &frame{
		screen: screen,
		writer: cellbuf.NewScreenWriter(screen),
		width:  width,
		height: height,
	}
	blankRow := strings.Repeat(" ", width)
	rows := make([]string, height)
	for i := range rows {
		rows[i] = blankRow
	}
	f.writer.PrintCropAt(0, 0, strings.Join(rows, "\r\n"), "")
	return f
}

// place draws block aligned within the frame, inset by margin cells on every
// side. Rows past the bottom edge and columns past the right edge are cropped.
func (f *frame) place(block string, h, v lipgloss.Position, margin int) {
	if block == "" {
		return
	}
	lines := strings.Split(strings.ReplaceAll(block, "\r\n", "\n"), "\n")
	blockWidth := 0
	for _, line := range lines {
		blockWidth = max(blockWidth, ansi.StringWidth(line))
	}
	margin = max(margin, 0)

	x := margin + alignOffset(f.width-2*margin, blockWidth, h)
	y := margin + alignOffset(f.height-2*margin, len(lines), v)
	x = max(min(x, f.width-blockWidth), 0)
	y = max(min(y, f.height-len(lines)), 0)

	for i, line := range lines {
		row := y + i
		if row >= f.height {
			break
		}
		if line != "" {
			f.writer.PrintCropAt(x, row, line, "")
		}
	}
}

// alignOffset is the leading gap for size within space at pos (0 start, 1 end).
func alignOffset(space, size int, pos lipgloss.Position) int {
	gap := space - size
	if gap <= 0 {
		return 0
	}
	return int(float64(gap) * float64(pos))
}

// String renders the frame for Bubble Tea and releases the buffer.
func (f *frame) String() string {
	raw := cellbuf.Render(f.screen)
	_ = f.screen.Close()
	return strings.ReplaceAll(raw, "\r\n", "\n")
}
