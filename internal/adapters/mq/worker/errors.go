package worker

import "errors"

// ErrDrainTimeout is returned when workers did not drain the queue in time.
var ErrDrainTimeout = errors.New("worker drain timed out")
