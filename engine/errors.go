/*
errors.go - Centralized error types for the reminder engine

PURPOSE:
  All sentinel errors in one place for consistency and discoverability.
  Callers match with errors.Is(); the store layers wrap these with
  driver-level context.
*/
package engine

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrReminderNotFound is returned when a reminder id does not exist.
	ErrReminderNotFound = errors.New("reminder not found")

	// ErrTerminalStatus is returned when a write would overwrite a
	// done/dismissed/expired reminder. Generation treats this as a
	// silent skip; user-facing transitions surface it as a conflict.
	ErrTerminalStatus = errors.New("reminder has terminal status")

	// ErrNoRule is returned when a family has no applicable rule and no
	// zero-lead fallback. Indicates a malformed catalog.
	ErrNoRule = errors.New("no applicable rule in family")

	// ErrInvalidTransition is returned for user transitions that are not
	// allowed from the reminder's current status.
	ErrInvalidTransition = errors.New("invalid status transition")
)
