// Package queue provides a bounded or unbounded multi-producer,
// multi-consumer FIFO queue with blocking, non-blocking and timed transfers.
//
// Items leave the queue in the order they entered it, across all producers.
// Producers blocked on a full queue and consumers blocked on an empty one are
// served in arrival order: a non-blocking call never overtakes a parked one.
//
// A Queue owns one sending and one receiving endpoint. Sender and Receiver
// hand out further endpoints that can be closed independently; once every
// receiving endpoint is closed puts fail with ErrDisconnected, and once every
// sending endpoint is closed gets drain the buffer and then fail the same
// way. Disconnection is permanent.
//
// Usage:
//
//	q := queue.New[string](128)
//	tx := q.Sender()
//	defer tx.Close()
//
//	if err := tx.Put("job", true, timeout.None); err != nil {
//	    return err
//	}
//	item, err := q.GetTimeout(0.5)
package queue
