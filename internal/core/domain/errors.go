package domain

import "errors"

// Sentinel errors for the booking core. Adapters wrap these with context via
// fmt.Errorf("...: %w", err); handlers match them with errors.Is to pick the
// response envelope and HTTP status.
var (
	ErrMissingIdentity = errors.New("missing user ID or role")

	// ErrUnauthorized is returned for every authorization failure: unknown
	// actor, claimed role mismatch, role not allowed, or inactive admin.
	// The causes are deliberately indistinguishable to the caller.
	ErrUnauthorized = errors.New("unauthorized access")

	ErrMissingParameter       = errors.New("missing required parameter")
	ErrInvalidFilter          = errors.New("invalid filter")
	ErrMissingFilterParameter = errors.New("missing filter parameter")

	ErrNotFound          = errors.New("not found")
	ErrAlreadyFinalized  = errors.New("appointment already finalized")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStaffNotFound     = errors.New("staff member not found")

	ErrAlreadyCheckedIn = errors.New("already checked in")
	ErrNotCheckedIn     = errors.New("no open work log entry")
)
