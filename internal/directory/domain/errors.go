package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that the operation target does not exist.
	// A zero-row update or delete reports this; it is never a crash.
	ErrNotFound = errors.New("resource not found")
	// ErrUnknownClient indicates a phone was addressed to a client id with
	// no matching client row (a foreign-key violation mapped to the domain).
	ErrUnknownClient = errors.New("unknown client")
	// ErrStoreUnavailable indicates a connection or transport failure.
	// The current session should be considered unusable and reopened.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// DuplicateEmailError reports that a client with the same normalized
// email already exists, naming the current owner.
type DuplicateEmailError struct {
	Email   string
	OwnerID int64
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("email %s already registered for client %d", e.Email, e.OwnerID)
}

// DuplicatePhoneError reports that a number already belongs to a client
// somewhere in the directory. OwnerID names the current owner so the
// operator can decide next steps.
type DuplicatePhoneError struct {
	Number  string
	PhoneID int64
	OwnerID int64
}

func (e *DuplicatePhoneError) Error() string {
	return fmt.Sprintf("phone %s (id %d) already registered for client %d", e.Number, e.PhoneID, e.OwnerID)
}
