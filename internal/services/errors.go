package services

import "errors"

var (
	// ErrNotFound is returned when a record, proposal or notification cannot
	// be located in the store.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned when a status change is requested from
	// a state that does not admit it, e.g. deciding a proposal that is no
	// longer pending. The failing call leaves all state unchanged.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyAccepted is returned when accepting a proposal on a listing
	// that already holds an accepted one and multiple acceptances are
	// disabled.
	ErrAlreadyAccepted = errors.New("listing already has an accepted proposal")

	// ErrIntegrity flags a broken cross-reference: a summary whose source
	// record does not resolve, or an agreement referencing a missing summary.
	// Retrying cannot fix missing data, so operations abort on it.
	ErrIntegrity = errors.New("data integrity violation")
)
