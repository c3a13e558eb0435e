package domain

import "errors"

var (
	// ErrUnauthorizedRoll is returned when a credential is malformed or outside
	// the configured roll range.
	ErrUnauthorizedRoll = errors.New("roll number is not authorized")
	// ErrDuplicateRoll is returned when the roll number already holds a claim.
	ErrDuplicateRoll = errors.New("roll number has already given answers")
	// ErrDuplicateAddress is returned when the source address already holds a claim.
	ErrDuplicateAddress = errors.New("address has already given answers")
	// ErrCatalogNotFound indicates the catalog content could not be loaded.
	ErrCatalogNotFound = errors.New("catalog not found")
	// ErrResultNotRegistered is returned when a result arrives for a roll that
	// never passed registration.
	ErrResultNotRegistered = errors.New("result recorded without registration")
)
