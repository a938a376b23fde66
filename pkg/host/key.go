package host

import (
	"errors"
	"fmt"

	"github.com/yndnr/syncx-go/internal/telemetry/logger"
)

// ErrUnhashable is matched by every HashError.
var ErrUnhashable = errors.New("unhashable value")

// HashError reports that the host could not hash a value.
type HashError struct {
	Object Object
	Cause  error
}

// Error implements the error interface.
func (e *HashError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unhashable value %s: %v", Describe(e.Object), e.Cause)
	}
	return fmt.Sprintf("unhashable value %s", Describe(e.Object))
}

// Unwrap returns the host error.
func (e *HashError) Unwrap() error {
	return e.Cause
}

// Is matches ErrUnhashable.
func (e *HashError) Is(target error) bool {
	return target == ErrUnhashable
}

// Key is the foreign key adapter: a host object paired with its memoized
// hash code. Keys are immutable; mutating the host object after insertion
// into a container is a caller error.
type Key struct {
	object Object
	hash   int64
}

// NewKey hashes obj once and wraps it.
func NewKey(obj Object) (Key, error) {
	if obj == nil {
		return Key{}, &HashError{Object: obj, Cause: errors.New("nil object")}
	}
	h, err := hashOf(obj)
	if err != nil {
		return Key{}, &HashError{Object: obj, Cause: err}
	}
	return Key{object: obj, hash: h}, nil
}

func hashOf(obj Object) (h int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("host hash panicked: %v", r)
		}
	}()
	return obj.HostHash()
}

// Object returns the wrapped host object.
func (k Key) Object() Object { return k.object }

// Hash returns the memoized hash code.
func (k Key) Hash() int64 { return k.hash }

// Equal reports whether two keys denote the same host value.
//
// Differing hash codes short-circuit without calling the host. When the
// host equality operator fails the comparison degrades to reference
// identity rather than surfacing the failure.
func (k Key) Equal(other Key) bool {
	if k.hash != other.hash {
		return false
	}
	if k.object == nil || other.object == nil {
		return k.object == nil && other.object == nil
	}

	eq, err := hostEqual(k.object, other.object)
	if err != nil {
		// Describe calls back into the host; skip it unless it is logged.
		if logger.Enabled("debug") {
			logger.Debug("host equality failed, comparing by identity",
				"lhs", Describe(k.object),
				"rhs", Describe(other.object),
				"error", err,
			)
		}
		return SameObject(k.object, other.object)
	}
	return eq
}

func hostEqual(a, b Object) (eq bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("host equality panicked: %v", r)
		}
	}()
	return a.HostEqual(b)
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return Describe(k.object)
}
