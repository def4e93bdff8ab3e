package update

import "sync"

// Progress is the shared download progress cell. The download task is its only
// writer; observers read snapshots without blocking on I/O. The lock is held
// for a single read or write only.
type Progress struct {
	mu          sync.Mutex
	fraction    float64
	determinate bool
	written     int64
	total       int64
}

// ProgressSnapshot is a point-in-time copy of a Progress.
type ProgressSnapshot struct {
	// Fraction is in [0, 1]. It stays 0 while the total size is unknown.
	Fraction float64
	// Determinate is false when the server did not report a content length.
	Determinate bool
	// Written is the number of bytes written so far.
	Written int64
	// Total is the expected size in bytes, or -1 when unknown.
	Total int64
}

// NewProgress returns a progress cell at 0.
func NewProgress() *Progress {
	return &Progress{total: -1}
}

// Reset starts a new attempt with the given expected size (-1 or 0 when
// unknown). A zero fraction with Determinate=false means "unknown size".
func (p *Progress) Reset(total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fraction = 0
	p.written = 0
	if total > 0 {
		p.total = total
		p.determinate = true
	} else {
		p.total = -1
		p.determinate = false
	}
}

// Advance records the cumulative bytes written. The fraction is clamped to 1
// and never moves backwards within an attempt.
func (p *Progress) Advance(written int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if written > p.written {
		p.written = written
	}
	if !p.determinate {
		return
	}
	f := float64(p.written) / float64(p.total)
	if f > 1 {
		f = 1
	}
	if f > p.fraction {
		p.fraction = f
	}
}

// Complete forces the fraction to exactly 1.
func (p *Progress) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fraction = 1
	p.determinate = true
	if p.total < p.written {
		p.total = p.written
	}
}

// Snapshot returns the current state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ProgressSnapshot{
		Fraction:    p.fraction,
		Determinate: p.determinate,
		Written:     p.written,
		Total:       p.total,
	}
}

// Fraction returns the current fraction.
func (p *Progress) Fraction() float64 {
	return p.Snapshot().Fraction
}
