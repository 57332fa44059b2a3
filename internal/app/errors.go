package service

import "errors"

// Sentinel errors returned by the Service.
var (
	ErrNotStarted  = errors.New("service not started")
	ErrInvalidUser = errors.New("invalid user: empty id")
)
