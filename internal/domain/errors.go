package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// ValidationError names the first missing or malformed field.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// CapacityExceededError is returned when a shuttle has no seat left
// or is not in service.
type CapacityExceededError struct {
	ShuttleID string
	Capacity  int
	Occupancy int
}

func (e CapacityExceededError) Error() string {
	if e.ShuttleID == "" {
		return "shuttle is full"
	}
	return fmt.Sprintf("shuttle %s is full (%d/%d)", e.ShuttleID, e.Occupancy, e.Capacity)
}

// BackendUnavailableError wraps a failed read or write against a backing store.
type BackendUnavailableError struct {
	Op  string
	Err error
}

func (e BackendUnavailableError) Error() string {
	if e.Op == "" {
		return "backend unavailable"
	}
	if e.Err == nil {
		return fmt.Sprintf("backend unavailable: %s", e.Op)
	}
	return fmt.Sprintf("backend unavailable: %s: %v", e.Op, e.Err)
}

func (e BackendUnavailableError) Unwrap() error { return e.Err }

// AuthRequiredError carries the path the caller should come back to after signing in.
type AuthRequiredError struct {
	ReturnPath string
	Msg        string
}

func (e AuthRequiredError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "authentication required"
}

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsCapacityExceeded(err error) bool {
	var target CapacityExceededError
	return errors.As(err, &target)
}

func IsBackendUnavailable(err error) bool {
	var target BackendUnavailableError
	return errors.As(err, &target)
}

func IsAuthRequired(err error) bool {
	var target AuthRequiredError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
