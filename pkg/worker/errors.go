package worker

import "errors"

// Pool lifecycle and submission errors.
var (
	ErrNilProcessor   = errors.New("worker: nil processor")
	ErrNotStarted     = errors.New("worker: pool not started")
	ErrAlreadyStarted = errors.New("worker: pool already started")
	ErrStopped        = errors.New("worker: pool stopped")
	ErrQueueFull      = errors.New("worker: queue full")
	ErrStopTimeout    = errors.New("worker: stop timeout")
)
