package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrAccountNotFound indicates that no account matches the lookup
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountAlreadyLinked indicates that the external identity is already linked
	ErrAccountAlreadyLinked = errors.New("account already linked")

	// ErrPriceNotFound indicates that no active price carries the lookup key
	ErrPriceNotFound = errors.New("price not found")
)

// MissingEmailError aborts an account link whose owning user has no usable email.
type MissingEmailError struct {
	UserID string
}

func (e *MissingEmailError) Error() string {
	return fmt.Sprintf("user %s has no email; cannot provision billing customer", e.UserID)
}

// IsMissingEmail reports whether err is (or wraps) a MissingEmailError.
func IsMissingEmail(err error) bool {
	var target *MissingEmailError
	return errors.As(err, &target)
}
