package services

import "fmt"

// Error codes returned by the lifecycle services. Controllers map these to
// HTTP statuses; the codes themselves are the stable contract.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeNoActiveSub       = "NO_ACTIVE_SUBSCRIPTION"
	CodeActiveSubExists   = "ACTIVE_SUBSCRIPTION_EXISTS"
	CodeAlreadyCancelled  = "ALREADY_CANCELLED"
	CodeConflict          = "CONFLICT"
	CodePhotosUnavailable = "PHOTOS_UNAVAILABLE"
)

// ServiceError is an expected, caller-recoverable failure of a lifecycle
// operation. Services return these for validation, authorization, not-found
// and invalid-transition conditions; genuine store failures are returned as
// ordinary wrapped errors instead and treated as fatal by the web layer.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewValidationError builds a VALIDATION_ERROR with a human-readable reason
func NewValidationError(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidTransition builds an INVALID_TRANSITION naming both states
func NewInvalidTransition(from, to string) *ServiceError {
	return &ServiceError{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("cannot move from %q to %q", from, to),
	}
}

// Deliberately generic messages: they must not reveal whether an id exists
// for another user.
var (
	ErrNotFound     = &ServiceError{Code: CodeNotFound, Message: "Resource not found"}
	ErrUnauthorized = &ServiceError{Code: CodeUnauthorized, Message: "Not allowed"}

	ErrNoActiveSubscription = &ServiceError{
		Code:    CodeNoActiveSub,
		Message: "An active subscription is required",
	}
	ErrActiveSubscriptionExists = &ServiceError{
		Code:    CodeActiveSubExists,
		Message: "An active subscription already exists for this user",
	}
	ErrAlreadyCancelled = &ServiceError{
		Code:    CodeAlreadyCancelled,
		Message: "Subscription is already cancelled",
	}
	// ErrConflict reports that a concurrent actor changed the entity between
	// the precondition check and the write.
	ErrConflict = &ServiceError{Code: CodeConflict, Message: "The resource was modified concurrently, retry"}

	// ErrPhotosUnavailable reports that photo storage is not configured on
	// this deployment (no S3 bucket).
	ErrPhotosUnavailable = &ServiceError{
		Code:    CodePhotosUnavailable,
		Message: "Photo storage is not available",
	}
)
