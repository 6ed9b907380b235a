package schedule

import (
	"fmt"
	"strings"
)

// InvariantCode is the machine-readable reason attached to an InvariantError.
type InvariantCode string

const (
	CodeLastSchedule    InvariantCode = "LAST_SCHEDULE"
	CodeIsDefault       InvariantCode = "IS_DEFAULT"
	CodeInvalidSlideID  InvariantCode = "INVALID_SLIDE_ID"
	CodeDefaultInactive InvariantCode = "DEFAULT_INACTIVE"
)

// ValidationError means the request could not be processed. Nothing was written.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(e.Fields, ", "))
}

// InvariantError rejects a well-formed request that would break a standing rule.
// Nothing was written.
type InvariantError struct {
	Code    InvariantCode
	Message string
	Details []string
}

func (e *InvariantError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Details, "; "))
}

// NotFoundError covers rows that are missing and rows owned by another tenant alike.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// InternalError wraps a storage or transaction failure. The transaction was rolled
// back, so the call can be retried.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

func (e *InternalError) Retryable() bool { return true }

func errLastSchedule() error {
	return &InvariantError{Code: CodeLastSchedule, Message: "Cannot delete the last content schedule"}
}

func errDeleteDefault() error {
	return &InvariantError{
		Code:    CodeIsDefault,
		Message: "Cannot delete the default content schedule. Set another schedule as default first",
	}
}

func errDeactivateDefault() error {
	return &InvariantError{
		Code:    CodeDefaultInactive,
		Message: "Cannot deactivate the default content schedule. Set another schedule as default first",
	}
}
