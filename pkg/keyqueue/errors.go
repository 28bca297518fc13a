package keyqueue

import (
	"errors"
	"fmt"
)

// ErrQueueFull reports back-pressure: the key already has QueueSize jobs
// waiting.
var ErrQueueFull = errors.New("key queue full")

// ErrExecutorClosed reports that the executor has been stopped.
var ErrExecutorClosed = errors.New("key queue executor closed")

// QueueFullError carries diagnostics while satisfying errors.Is(_, ErrQueueFull).
type QueueFullError struct {
	Key      string
	Capacity int
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("queue of key %s full (cap=%d)", e.Key, e.Capacity)
}

func (e *QueueFullError) Is(target error) bool { return target == ErrQueueFull }
