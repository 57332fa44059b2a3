package loadgen

import "errors"

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrViolation        = errors.New("recommendation check failed")
	ErrInvalidConfig    = errors.New("invalid loadgen config")
)
