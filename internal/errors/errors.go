package errors

import "fmt"

// ErrorCode represents a dailyforge error code.
type ErrorCode string

const (
	ErrMissingCredential ErrorCode = "MISSING_CREDENTIAL" // 401
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"    // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"          // 404
	ErrMalformedResponse ErrorCode = "MALFORMED_RESPONSE" // 422
	ErrEmptyCompletion   ErrorCode = "EMPTY_COMPLETION"   // 502
	ErrGenerationFailed  ErrorCode = "GENERATION_FAILED"  // 502
	ErrResponseTooLarge  ErrorCode = "RESPONSE_TOO_LARGE" // 413
	ErrArtifactIO        ErrorCode = "ARTIFACT_IO"        // 500
	ErrCancelled         ErrorCode = "CANCELLED"          // 499
	ErrInternal          ErrorCode = "INTERNAL"           // 500
)

// ForgeError represents a structured error with code, status, and details.
type ForgeError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *ForgeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewMissingCredential creates a 401 error for an absent API credential.
func NewMissingCredential(envVar string) *ForgeError {
	return &ForgeError{
		Code:    ErrMissingCredential,
		Status:  401,
		Message: fmt.Sprintf("%s environment variable is not set", envVar),
		Details: map[string]any{"env_var": envVar},
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *ForgeError {
	return &ForgeError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a run cannot be found.
func NewNotFound(identifier string) *ForgeError {
	return &ForgeError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("run not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewMalformedResponse creates a 422 error when the completion is missing
// required sections.
func NewMalformedResponse(missing []string) *ForgeError {
	return &ForgeError{
		Code:    ErrMalformedResponse,
		Status:  422,
		Message: fmt.Sprintf("completion missing required sections: %v", missing),
		Details: map[string]any{"missing_sections": missing},
	}
}

// NewEmptyCompletion creates a 502 error when the endpoint returned no usable text.
func NewEmptyCompletion() *ForgeError {
	return &ForgeError{
		Code:    ErrEmptyCompletion,
		Status:  502,
		Message: "generation endpoint returned an empty completion",
	}
}

// NewGenerationFailed creates a 502 error when the outbound API call failed.
func NewGenerationFailed(err error) *ForgeError {
	msg := "generation request failed"
	if err != nil {
		msg = fmt.Sprintf("generation request failed: %v", err)
	}
	return &ForgeError{
		Code:    ErrGenerationFailed,
		Status:  502,
		Message: msg,
	}
}

// NewResponseTooLarge creates a 413 error when the completion exceeds the size cap.
func NewResponseTooLarge(max, actual int) *ForgeError {
	return &ForgeError{
		Code:    ErrResponseTooLarge,
		Status:  413,
		Message: fmt.Sprintf("completion exceeds maximum size: %d chars (max %d)", actual, max),
		Details: map[string]any{"max_chars": max, "actual_chars": actual},
	}
}

// NewArtifactIO creates a 500 error for directory or file write failures.
func NewArtifactIO(err error) *ForgeError {
	msg := "artifact write failed"
	if err != nil {
		msg = fmt.Sprintf("artifact write failed: %v", err)
	}
	return &ForgeError{
		Code:    ErrArtifactIO,
		Status:  500,
		Message: msg,
	}
}

// NewCancelled creates a 499 error for a cancelled operation.
func NewCancelled(operation string) *ForgeError {
	return &ForgeError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", operation),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *ForgeError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ForgeError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a ForgeError with the given code.
func Is(err error, code ErrorCode) bool {
	if fErr, ok := err.(*ForgeError); ok {
		return fErr.Code == code
	}
	return false
}
