package common

import (
	"errors"
	"net/http"
)

// ErrorResponse is the API error payload.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// CustomError is an error carrying an API code and HTTP status.
type CustomError struct {
	Code    string
	Message string
	Err     error
	Status  int
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError creates a new CustomError.
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ValidationError is raised when user input is rejected, including the
// not-food rejection coming back from the generation backend. Message is
// localized and safe to show to the end user.
type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError creates a new validation error with a user-facing message.
func NewValidationError(message string) error {
	return &ValidationError{message: message}
}

// IsValidationError reports whether err is a validation error.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AuthorizationError is raised when the caller is unauthenticated or not a
// member of the group owning the requested resource. Always surfaced,
// never retried.
type AuthorizationError struct {
	message string
}

func (e *AuthorizationError) Error() string {
	return e.message
}

// NewAuthorizationError creates a new authorization error.
func NewAuthorizationError(message string) error {
	return &AuthorizationError{message: message}
}

// IsAuthorizationError reports whether err is an authorization error.
func IsAuthorizationError(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

// PersistenceError wraps a failed backing-store operation. Surfaced to the
// caller as a generic failure.
type PersistenceError struct {
	op  string
	err error
}

func (e *PersistenceError) Error() string {
	return e.op + ": " + e.err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.err
}

// NewPersistenceError wraps a storage failure with the failed operation name.
func NewPersistenceError(op string, err error) error {
	return &PersistenceError{op: op, err: err}
}

// IsPersistenceError reports whether err is a persistence error.
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// GenerationError marks a failure inside the generation path: backend
// unreachable, unparsable output, missing fields. Absorbed by callers —
// the dish is simply left without AI-derived content.
type GenerationError struct {
	reason string
	err    error
}

func (e *GenerationError) Error() string {
	if e.err != nil {
		return e.reason + ": " + e.err.Error()
	}
	return e.reason
}

func (e *GenerationError) Unwrap() error {
	return e.err
}

// NewGenerationError creates a new generation error.
func NewGenerationError(reason string, err error) error {
	return &GenerationError{reason: reason, err: err}
}

// IsGenerationError reports whether err is a generation error.
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}

// Predefined error codes.
const (
	// Client errors (4xx)
	ErrCodeInvalidRequest   = "INVALID_REQUEST"    // 400
	ErrCodeUnauthorized     = "UNAUTHORIZED"       // 401
	ErrCodeForbidden        = "FORBIDDEN"          // 403
	ErrCodeNotFound         = "NOT_FOUND"          // 404
	ErrCodeConflict         = "CONFLICT"           // 409
	ErrCodeValidationFailed = "VALIDATION_FAILED"  // 422
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"  // 429

	// Server errors (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504
)

// Predefined errors.
var (
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "invalid request", http.StatusBadRequest, nil)
	ErrUnauthorized    = NewError(ErrCodeUnauthorized, "unauthorized", http.StatusUnauthorized, nil)
	ErrForbidden       = NewError(ErrCodeForbidden, "forbidden", http.StatusForbidden, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "resource not found", http.StatusNotFound, nil)
	ErrConflict        = NewError(ErrCodeConflict, "resource conflict", http.StatusConflict, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "too many requests", http.StatusTooManyRequests, nil)

	ErrInternalError      = NewError(ErrCodeInternalError, "internal server error", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "service temporarily unavailable", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "gateway timeout", http.StatusGatewayTimeout, nil)

	// Domain errors
	ErrGroupFull       = NewError("GROUP_FULL", "the couple already has two members", http.StatusConflict, nil)
	ErrAlreadyInGroup  = NewError("ALREADY_IN_GROUP", "caller already belongs to a group", http.StatusConflict, nil)
	ErrInvalidInvite   = NewError("INVALID_INVITE", "invite code not recognized", http.StatusNotFound, nil)
	ErrAIServiceError  = NewError("AI_SERVICE_ERROR", "AI service error", http.StatusServiceUnavailable, nil)
)
