package bookings

import (
	"errors"
	"mepass/src/inventory"
)

var (
	ErrEventNotFound          = errors.New("event not found")
	ErrBookingNotFound        = errors.New("booking not found")
	ErrForbidden              = errors.New("not authorized to access this booking")
	ErrInvalidQuantity        = errors.New("tickets must be between 1 and 10")
	ErrAlreadyCancelled       = errors.New("booking is already cancelled")
	ErrConflictRetryExhausted = errors.New("could not complete booking after retries")

	// The capacity rejection is raised by the inventory and surfaces
	// unchanged through the ledger.
	ErrCapacityExceeded = inventory.ErrCapacityExceeded
)
