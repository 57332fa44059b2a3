package catalog

import "errors"

// Sentinel errors for catalog construction and loading.
var (
	ErrDuplicateID = errors.New("duplicate deal id")
	ErrInvalidDeal = errors.New("invalid deal")
	ErrLoad        = errors.New("load catalog failed")
)
