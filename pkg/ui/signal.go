package ui

import (
	"sync"
	"sync/atomic"
)

// Signal is a one-shot event. Fire may be called any number of times from
// any goroutine; Done is closed on the first call only.
type Signal struct {
	once sync.Once
	done chan struct{}
}

// NewSignal creates an unfired signal.
func NewSignal() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Fire marks the signal and reports whether this call was the first.
func (s *Signal) Fire() bool {
	first := false
	s.once.Do(func() {
		first = true
		close(s.done)
	})
	return first
}

// Done is closed once the signal fires.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

// Fired reports whether the signal has fired.
func (s *Signal) Fired() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Progress is a resolved/total counter safe to update from any goroutine
// and read while drawing.
type Progress struct {
	resolved atomic.Int64
	total    atomic.Int64
}

// Set records progress.
func (p *Progress) Set(resolved, total int) {
	p.total.Store(int64(total))
	p.resolved.Store(int64(resolved))
}

// Fraction returns resolved/total in [0, 1]; 0 when total is unknown.
func (p *Progress) Fraction() float64 {
	total := p.total.Load()
	if total <= 0 {
		return 0
	}
	return min(1, float64(p.resolved.Load())/float64(total))
}
