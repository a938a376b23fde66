package queue

import "errors"

var (
	// ErrEmpty is returned by a get that found no item in time.
	ErrEmpty = errors.New("queue is empty")

	// ErrFull is returned by a put that found no free slot in time.
	ErrFull = errors.New("queue is full")

	// ErrDisconnected is returned once the other side of the queue is gone.
	ErrDisconnected = errors.New("queue disconnected")
)
