package model

import "fmt"

// DomainError represents domain-specific errors for the cycle engine
type DomainError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (e DomainError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Common domain errors
var (
	// ErrInvalidTransition indicates an invalid goal status transition
	ErrInvalidTransition = DomainError{
		Code:    "GOAL_INVALID_TRANSITION",
		Message: "Invalid goal status transition",
	}

	// ErrGoalNotFound indicates the goal was not found
	ErrGoalNotFound = DomainError{
		Code:    "GOAL_NOT_FOUND",
		Message: "Goal not found",
	}

	// ErrIntegrity indicates the backing ledger cannot be trusted
	ErrIntegrity = DomainError{
		Code:    "STORE_INTEGRITY",
		Message: "Backing storage cannot be read or written",
	}
)

// NewDomainError creates a new domain error with details
func NewDomainError(code, message string, details map[string]interface{}) DomainError {
	return DomainError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// WithDetails adds details to an existing error
func (e DomainError) WithDetails(details map[string]interface{}) DomainError {
	e.Details = details
	return e
}

// Is allows errors.Is matching by code
func (e DomainError) Is(target error) bool {
	other, ok := target.(DomainError)
	return ok && other.Code == e.Code
}

// IsInvalidTransition checks if the error is an invalid transition error
func IsInvalidTransition(err error) bool {
	domErr, ok := err.(DomainError)
	return ok && domErr.Code == ErrInvalidTransition.Code
}

// IsNotFound checks if the error is a goal not found error
func IsNotFound(err error) bool {
	domErr, ok := err.(DomainError)
	return ok && domErr.Code == ErrGoalNotFound.Code
}

// IsIntegrity checks if the error is an integrity error
func IsIntegrity(err error) bool {
	domErr, ok := err.(DomainError)
	return ok && domErr.Code == ErrIntegrity.Code
}
