package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity-provider scoped principal. Email is the lookup key
// for its accounts and the key used when creating billing customers.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
