package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"launcher/internal/ui"
	"launcher/internal/update"
)

const (
	defaultProgressInterval = 120 * time.Millisecond
	progressBarWidth        = 24
)

// progressLine reports a download in plain mode. It reads the shared progress
// cell on its own ticker. On a terminal it rewrites a single status line;
// otherwise it appends a plain line per tenth of progress.
type progressLine struct {
	writer        io.Writer
	label         string
	snapshot      func() update.ProgressSnapshot
	frameInterval time.Duration
	frames        []rune
	tty           bool

	stopCh chan struct{}
	doneCh chan struct{}
	once   sync.Once

	frameIdx int
	lastStep int
	lastLine string
}

func newProgressLine(w io.Writer, label string, snapshot func() update.ProgressSnapshot, tty bool) *progressLine {
	return newCustomProgressLine(w, label, snapshot, defaultProgressInterval, tty)
}

func newCustomProgressLine(w io.Writer, label string, snapshot func() update.ProgressSnapshot, frameInterval time.Duration, tty bool) *progressLine {
	if w == nil {
		w = io.Discard
	}
	p := &progressLine{
		writer:        w,
		label:         label,
		snapshot:      snapshot,
		frameInterval: frameInterval,
		frames:        []rune{'|', '/', '-', '\\'},
		tty:           tty,
		lastStep:      -2,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
	go p.loop()
	return p
}

// Stop renders the final state, ends the line and waits for the loop to exit.
func (p *progressLine) Stop() {
	if p == nil {
		return
	}
	p.once.Do(func() {
		close(p.stopCh)
		<-p.doneCh
	})
}

func (p *progressLine) loop() {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.frameInterval)
	defer ticker.Stop()

	p.render(false)
	for {
		select {
		case <-p.stopCh:
			p.render(true)
			if p.tty {
				_, _ = fmt.Fprintln(p.writer)
			}
			return
		case <-ticker.C:
			p.render(false)
		}
	}
}

func (p *progressLine) render(final bool) {
	snap := p.snapshot()
	msg := formatProgressMessage(p.label, snap)
	if p.tty {
		frame := p.frames[p.frameIdx%len(p.frames)]
		p.frameIdx++
		_, _ = fmt.Fprintf(p.writer, "\r\033[2K%c %s", frame, msg)
		return
	}

	step := -1
	if snap.Determinate {
		step = int(snap.Fraction * 10)
	}
	if msg == p.lastLine || (!final && step == p.lastStep) {
		return
	}
	p.lastStep = step
	p.lastLine = msg
	_, _ = fmt.Fprintln(p.writer, msg)
}

func formatProgressMessage(label string, snap update.ProgressSnapshot) string {
	label = strings.TrimSpace(label)
	if label == "" {
		label = "download"
	}
	transfer := ui.FormatTransfer(snap)
	if !snap.Determinate {
		return fmt.Sprintf("Downloading %s - %s", label, transfer)
	}
	filled := int(snap.Fraction * progressBarWidth)
	if filled > progressBarWidth {
		filled = progressBarWidth
	}
	bar := strings.Repeat("#", filled) + strings.Repeat(".", progressBarWidth-filled)
	return fmt.Sprintf("Downloading %s [%s] %s", label, bar, transfer)
}
