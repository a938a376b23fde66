// Package timeout normalizes caller supplied wait bounds.
//
// Two policies exist because the primitives built on top of it disagree on
// what a bad timeout means:
//
//   - Lenient (locks): a negative timeout is an already expired wait and a
//     non-finite or huge timeout waits forever.
//   - Strict (queue): negative or non-finite timeouts are rejected with
//     ErrInvalidTimeout.
//
// Usage:
//
//	ok := mu.Acquire(true, timeout.Lenient(0.25))
//
//	w, err := timeout.Strict(1.5)
//	if err != nil {
//	    return err
//	}
//	item, err := q.Get(true, w)
package timeout

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidTimeout is returned by Strict for negative or non-finite input.
var ErrInvalidTimeout = errors.New("invalid timeout")

// maxSeconds is the largest wait expressible as a time.Duration.
var maxSeconds = time.Duration(math.MaxInt64).Seconds()

type kind uint8

const (
	kindForever kind = iota
	kindBounded
	kindExpired
)

// Wait is a normalized wait policy. The zero value waits forever.
type Wait struct {
	kind kind
	d    time.Duration
}

// None waits without a bound.
var None = Wait{kind: kindForever}

// Expired never waits.
var Expired = Wait{kind: kindExpired}

// After returns a wait bounded by d. A negative d is already expired.
func After(d time.Duration) Wait {
	if d < 0 {
		return Expired
	}
	return Wait{kind: kindBounded, d: d}
}

// Lenient converts seconds using the lock policy.
func Lenient(seconds float64) Wait {
	if math.Signbit(seconds) && !math.IsNaN(seconds) {
		return Expired
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds >= maxSeconds {
		return None
	}
	ns := math.Round(seconds * float64(time.Second))
	if ns >= math.MaxInt64 {
		return None
	}
	return Wait{kind: kindBounded, d: time.Duration(ns)}
}

// Strict converts seconds using the queue policy.
func Strict(seconds float64) (Wait, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return Wait{}, fmt.Errorf("%w: timeout must be finite", ErrInvalidTimeout)
	}
	if seconds < 0 {
		return Wait{}, fmt.Errorf("%w: timeout must be >= 0", ErrInvalidTimeout)
	}
	if seconds >= maxSeconds {
		return None, nil
	}

	whole := math.Trunc(seconds)
	nanos := math.Round((seconds - whole) * 1e9)
	nanos = math.Max(0, math.Min(nanos, 999_999_999))
	if whole*1e9+nanos >= math.MaxInt64 {
		return None, nil
	}

	return Wait{
		kind: kindBounded,
		d:    time.Duration(whole)*time.Second + time.Duration(nanos),
	}, nil
}

// IsForever reports whether the wait is unbounded.
func (w Wait) IsForever() bool { return w.kind == kindForever }

// IsExpired reports whether the wait allows no blocking at all.
func (w Wait) IsExpired() bool { return w.kind == kindExpired }

// Duration returns the bound. Forever reports math.MaxInt64, Expired zero.
func (w Wait) Duration() time.Duration {
	switch w.kind {
	case kindForever:
		return time.Duration(math.MaxInt64)
	case kindExpired:
		return 0
	default:
		return w.d
	}
}

// Deadline returns the absolute deadline relative to now and whether one
// applies. Deadlines that would overflow are treated as none.
func (w Wait) Deadline(now time.Time) (time.Time, bool) {
	switch w.kind {
	case kindForever:
		return time.Time{}, false
	case kindExpired:
		return now, true
	}
	deadline := now.Add(w.d)
	if deadline.Before(now) {
		return time.Time{}, false
	}
	return deadline, true
}

// String implements fmt.Stringer.
func (w Wait) String() string {
	switch w.kind {
	case kindForever:
		return "forever"
	case kindExpired:
		return "expired"
	default:
		return w.d.String()
	}
}
