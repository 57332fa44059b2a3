package model

import "time"

// User is the identity store record consumed by the service.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Profile   Profile   `json:"profile"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}
