// Package hosttest provides scripted host objects for tests.
package hosttest

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/yndnr/syncx-go/pkg/host"
)

// ErrHostRaised is the error scripted objects return on failure.
var ErrHostRaised = errors.New("host raised")

// Obj is a host object with a scripted hash and equality operator.
// Obj values are always used by pointer so identity is the address.
type Obj struct {
	Name string
	Hash int64

	// Unhashable makes HostHash fail.
	Unhashable bool
	// EqualFails makes HostEqual fail.
	EqualFails bool

	eqCalls atomic.Int64
}

// New returns an object whose equality is by Name.
func New(name string, hash int64) *Obj {
	return &Obj{Name: name, Hash: hash}
}

// HostHash implements host.Object.
func (o *Obj) HostHash() (int64, error) {
	if o.Unhashable {
		return 0, fmt.Errorf("%w: unhashable type %q", ErrHostRaised, o.Name)
	}
	return o.Hash, nil
}

// HostEqual implements host.Object.
func (o *Obj) HostEqual(other host.Object) (bool, error) {
	o.eqCalls.Add(1)
	if o.EqualFails {
		return false, fmt.Errorf("%w: __eq__ of %q", ErrHostRaised, o.Name)
	}
	p, ok := other.(*Obj)
	if !ok {
		return false, nil
	}
	return o.Name == p.Name, nil
}

// EqualCalls returns how many times HostEqual ran on o.
func (o *Obj) EqualCalls() int64 {
	return o.eqCalls.Load()
}

// String implements fmt.Stringer.
func (o *Obj) String() string {
	return o.Name
}

// Int returns a native integer key.
func Int(v int) host.Native[int] {
	return host.NativeOf(v)
}

// Str returns a native string key.
func Str(v string) host.Native[string] {
	return host.NativeOf(v)
}

// Runtime records how often blocking sections were detached.
type Runtime struct {
	detached atomic.Int64
	inside   atomic.Int64
}

// AllowThreads implements host.Runtime.
func (r *Runtime) AllowThreads(fn func()) {
	r.detached.Add(1)
	r.inside.Add(1)
	defer r.inside.Add(-1)
	fn()
}

// Detached returns the number of AllowThreads calls.
func (r *Runtime) Detached() int64 {
	return r.detached.Load()
}

// Inside returns the number of goroutines currently detached.
func (r *Runtime) Inside() int64 {
	return r.inside.Load()
}
