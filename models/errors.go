package models

import "fmt"

// User-facing fallback messages. The product surfaces Korean copy.
const (
	MsgNetworkFailure = "네트워크 오류가 발생했습니다."
	MsgServerFailure  = "서버에서 오류가 발생했습니다."
)

// APIError is the single error shape every request failure is funneled into.
// Status is the HTTP status of the response, or 0 when no response was
// obtained (DNS failure, refused connection, timeout).
type APIError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsNetwork reports whether the error represents a transport failure.
func (e *APIError) IsNetwork() bool {
	return e.Status == 0
}

// Predefined error constructors
func NewNetworkError(err error) *APIError {
	return &APIError{
		Status:  0,
		Code:    "NETWORK_ERROR",
		Message: MsgNetworkFailure,
		Err:     err,
	}
}

func NewValidationError(message string) *APIError {
	return &APIError{
		Status:  400,
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func NewUnauthorizedError(message string) *APIError {
	return &APIError{
		Status:  401,
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

func NewAPIError(status int, message string) *APIError {
	return &APIError{
		Status:  status,
		Code:    "API_ERROR",
		Message: message,
	}
}

func NewParseError(err error) *APIError {
	return &APIError{
		Status:  0,
		Code:    "PARSE_ERROR",
		Message: MsgServerFailure,
		Err:     err,
	}
}

// ErrorMessage extracts the user-facing message from any error, falling back
// to the given default. Store actions use this to turn adapter errors into
// result strings.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if apiErr, ok := err.(*APIError); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
