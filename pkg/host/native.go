package host

import (
	"fmt"

	"github.com/spaolacci/murmur3"
)

// Native adapts a plain comparable Go value to Object. It is used by the
// benchmark tool and by callers that key containers on Go values.
//
// The hash is MurmurHash3 of the value's "%T:%v" rendering, so it is stable
// across processes for scalar types.
type Native[T comparable] struct {
	V T
}

// NativeOf wraps v.
func NativeOf[T comparable](v T) Native[T] {
	return Native[T]{V: v}
}

// HostHash implements Object.
func (n Native[T]) HostHash() (int64, error) {
	return int64(murmur3.Sum64([]byte(fmt.Sprintf("%T:%v", n.V, n.V)))), nil
}

// HostEqual implements Object.
func (n Native[T]) HostEqual(other Object) (bool, error) {
	o, ok := other.(Native[T])
	if !ok {
		return false, nil
	}
	return n.V == o.V, nil
}

// String implements fmt.Stringer.
func (n Native[T]) String() string {
	return fmt.Sprintf("%v", n.V)
}
