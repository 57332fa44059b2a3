// Package repository stores golfer profiles for the identity layer.
package repository

import (
	"context"

	"github.com/birdiedeals/birdie/internal/domain/model"
)

// Store provides read/write access to user records.
type Store interface {
	// Get returns the user with id, or ErrNotFound.
	Get(ctx context.Context, id string) (model.User, error)

	// Put creates or replaces a user record and returns the stored value.
	Put(ctx context.Context, u model.User) (model.User, error)

	// Count returns the number of stored users.
	Count(ctx context.Context) (int, error)

	Close() error
}

func validate(u model.User) error {
	if u.ID == "" {
		return ErrInvalidUser
	}
	return nil
}
