//go:build !deadlock

// Package syncutil provides the lock types used inside syncx containers.
// Build with -tags=deadlock to swap in go-deadlock for lock-order and
// hold-time diagnostics while developing.
package syncutil

import "sync"

// DeadlockEnabled is true if the deadlock detector is enabled.
const DeadlockEnabled = false

// A Mutex is a mutual exclusion lock.
type Mutex struct {
	sync.Mutex
}

// An RWMutex is a reader/writer mutual exclusion lock.
type RWMutex struct {
	sync.RWMutex
}
