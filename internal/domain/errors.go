package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by repositories, services and the HTTP layer.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

// Conflicts raised by registration and wishlist bookkeeping. Each matches ErrConflict via errors.Is.
var (
	ErrAlreadyRegistered = fmt.Errorf("%w: already registered for this conference", ErrConflict)
	ErrNoSeatsAvailable  = fmt.Errorf("%w: no seats available", ErrConflict)
	ErrAlreadyInWishlist = fmt.Errorf("%w: session already in wishlist", ErrConflict)
)

// Validation failures. Each matches ErrInvalidInput via errors.Is.
var (
	ErrInvalidKey               = fmt.Errorf("%w: malformed key", ErrInvalidInput)
	ErrInvalidField             = fmt.Errorf("%w: filter contains invalid field", ErrInvalidInput)
	ErrInvalidOperator          = fmt.Errorf("%w: filter contains invalid operator", ErrInvalidInput)
	ErrMultipleInequalityFields = fmt.Errorf("%w: inequality filter is allowed on only one field", ErrInvalidInput)
	ErrNumericCoercion          = fmt.Errorf("%w: filter value is not a number", ErrInvalidInput)
)
