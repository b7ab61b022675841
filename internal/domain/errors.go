package domain

import "errors"

var (
	// ErrInvalidRuleParameter is returned when a recurrence rule cannot be
	// built from the supplied parameters.
	ErrInvalidRuleParameter = errors.New("invalid recurrence rule parameter")

	// ErrMissingOrInvalidRule is returned when occurrences are requested for
	// a plan without an attached, valid recurrence rule.
	ErrMissingOrInvalidRule = errors.New("plan has no valid recurrence rule")

	ErrInvalidDateRange  = errors.New("start date must be on or before end date")
	ErrSomedayRecurrence = errors.New("someday plans cannot carry a recurrence rule")
	ErrWindowTooLarge    = errors.New("query window exceeds the configured maximum")
	ErrInvalidName       = errors.New("invalid name")
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
)
