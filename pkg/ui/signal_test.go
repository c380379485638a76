package ui

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestSignalFiresOnce(t *testing.T) {
	s := NewSignal()
	if s.Fired() {
		t.Fatal("new signal already fired")
	}

	var first atomic.Int32
	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			if s.Fire() {
				first.Add(1)
			}
		})
	}
	wg.Wait()

	if first.Load() != 1 {
		t.Errorf("Fire returned true %d times, want 1", first.Load())
	}
	select {
	case <-s.Done():
	default:
		t.Error("Done not closed")
	}
}

func TestProgressFraction(t *testing.T) {
	var p Progress
	if p.Fraction() != 0 {
		t.Error("unknown total should be 0")
	}
	p.Set(3, 6)
	if p.Fraction() != 0.5 {
		t.Errorf("Fraction = %v, want 0.5", p.Fraction())
	}
	p.Set(9, 6)
	if p.Fraction() != 1 {
		t.Errorf("Fraction = %v, want clamped to 1", p.Fraction())
	}
}
