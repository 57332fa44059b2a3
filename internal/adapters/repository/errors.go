package repository

import "errors"

// Sentinel errors for profile storage.
var (
	ErrNotFound    = errors.New("user not found")
	ErrInvalidUser = errors.New("invalid user: empty id")
	ErrStore       = errors.New("profile store failure")
)
