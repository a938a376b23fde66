// Package host defines the capabilities syncx consumes from the embedding
// runtime.
//
// The host owns its objects and their hashing and equality contracts. syncx
// never derives either structurally; it calls back through Object and treats
// holding a Go reference to an Object as keeping the referent alive.
//
// Blocking primitives bracket every wait with Runtime.AllowThreads so a host
// with a global execution lock can let other threads run while a goroutine
// is parked.
package host

import (
	"fmt"
	"reflect"
)

// Object is a host managed value.
type Object interface {
	// HostHash returns the host's hash code for the value. An error means the
	// value is unhashable.
	HostHash() (int64, error)
	// HostEqual applies the host's equality operator. An error means the
	// comparison itself failed.
	HostEqual(other Object) (bool, error)
}

// Identifier is implemented by objects that expose a stable reference
// identity, such as the address of the underlying host object.
type Identifier interface {
	HostID() uintptr
}

// Runtime is the host's execution-lock hook.
type Runtime interface {
	// AllowThreads runs fn with the host's execution lock released.
	AllowThreads(fn func())
}

// NopRuntime is used when no host execution lock exists.
type NopRuntime struct{}

// AllowThreads runs fn directly.
func (NopRuntime) AllowThreads(fn func()) { fn() }

// Detached runs fn through rt, or directly when rt is nil.
func Detached(rt Runtime, fn func()) {
	if rt == nil {
		fn()
		return
	}
	rt.AllowThreads(fn)
}

// SameObject reports whether a and b refer to the same host object.
//
// Identifier wins when both sides implement it. Otherwise pointer-shaped
// values compare by address and comparable values by ==. Values of
// incomparable types are never identical to anything but themselves by
// address, so they compare unequal.
func SameObject(a, b Object) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ia, ok := a.(Identifier); ok {
		if ib, ok := b.(Identifier); ok {
			return ia.HostID() == ib.HostID()
		}
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if va.Type().Comparable() {
		return safeEqual(a, b)
	}
	return false
}

// safeEqual compares interface values whose dynamic type is comparable but
// may still hold incomparable fields behind interfaces.
func safeEqual(a, b Object) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// Describe renders an object for error messages and logs.
func Describe(o Object) string {
	if s, ok := o.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", o)
}
