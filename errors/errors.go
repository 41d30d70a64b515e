package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode identifies the kind of failure carried by an AppError
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = iota
	ErrorCode_INTERNAL
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_NOT_FOUND
	ErrorCode_NETWORK
	ErrorCode_UNREADY_MEDIA
	ErrorCode_INVALID_IDENTIFIER
	ErrorCode_UNSUPPORTED_ASSET
	ErrorCode_NO_ACTIVE_ASSET
	ErrorCode_STORE_FAILED
	ErrorCode_CATALOG_FAILED
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:            "HTTP_OK",
	ErrorCode_INTERNAL:           "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:   "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:          "NOT_FOUND",
	ErrorCode_NETWORK:            "NETWORK",
	ErrorCode_UNREADY_MEDIA:      "UNREADY_MEDIA",
	ErrorCode_INVALID_IDENTIFIER: "INVALID_IDENTIFIER",
	ErrorCode_UNSUPPORTED_ASSET:  "UNSUPPORTED_ASSET",
	ErrorCode_NO_ACTIVE_ASSET:    "NO_ACTIVE_ASSET",
	ErrorCode_STORE_FAILED:       "STORE_FAILED",
	ErrorCode_CATALOG_FAILED:     "CATALOG_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CODE_%d", int(c))
}

// AppError is the application-wide error type
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying error to errors.Is / errors.As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

// Review Errors

// ErrNetwork wraps a failed or non-2xx call to the review backend.
func ErrNetwork(operation string, err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusBadGateway,
		Code:      ErrorCode_NETWORK,
		Message:   fmt.Sprintf("Review backend call failed: %s", operation),
		Timestamp: time.Now(),
	}.WithDetail("operation", operation)
}

// ErrUnreadyMedia is returned when a playback position is requested before
// the player reported readiness.
func ErrUnreadyMedia() AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_UNREADY_MEDIA,
		Message:  "Media player is not ready",
	}
}

// ErrInvalidIdentifier rejects mutations aimed at comments that have no
// server-assigned id yet.
func ErrInvalidIdentifier(ref string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_IDENTIFIER,
		Message:  "Comment has no server id yet",
	}.WithDetail("ref", ref)
}

func ErrUnsupportedAsset(name string) AppError {
	return AppError{
		HTTPCode: http.StatusUnprocessableEntity,
		Code:     ErrorCode_UNSUPPORTED_ASSET,
		Message:  "Unsupported file type.",
	}.WithDetail("asset", name)
}

func ErrNoActiveAsset() AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_NO_ACTIVE_ASSET,
		Message:  "No asset selected for review",
	}
}

// Integration Errors
func ErrStoreFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_STORE_FAILED,
		Message:  fmt.Sprintf("State store operation failed: %s", operation),
	}
}

func ErrCatalogFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_CATALOG_FAILED,
		Message:  "Failed to list media",
	}
}

// HTTPStatusOK represents a successful HTTP response.
func HTTPStatusOK(message string) AppError {
	return AppError{
		HTTPCode: http.StatusOK,
		Code:     ErrorCode_HTTP_OK,
		Message:  message,
	}
}

// Code extracts the ErrorCode of err, or ErrorCode_INTERNAL when err is not an AppError.
func Code(err error) ErrorCode {
	var appErr AppError
	if stdErrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrorCode_INTERNAL
}

func IsNetwork(err error) bool {
	return err != nil && Code(err) == ErrorCode_NETWORK
}

func IsInvalidIdentifier(err error) bool {
	return err != nil && Code(err) == ErrorCode_INVALID_IDENTIFIER
}

func IsUnreadyMedia(err error) bool {
	return err != nil && Code(err) == ErrorCode_UNREADY_MEDIA
}

func IsUnsupportedAsset(err error) bool {
	return err != nil && Code(err) == ErrorCode_UNSUPPORTED_ASSET
}
