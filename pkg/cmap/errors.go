package cmap

import (
	"errors"

	"github.com/yndnr/syncx-go/pkg/host"
)

// ErrKeyNotFound is matched by every KeyError.
var ErrKeyNotFound = errors.New("key not found")

// KeyError reports a missing key. Key is the object the caller passed in.
type KeyError struct {
	Key host.Object
}

// Error implements the error interface.
func (e *KeyError) Error() string {
	return "key not found: " + host.Describe(e.Key)
}

// Is matches ErrKeyNotFound.
func (e *KeyError) Is(target error) bool {
	return target == ErrKeyNotFound
}
