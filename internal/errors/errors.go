package errors

import (
	"errors"
	"fmt"
)

// ErrCode represents an error code
type ErrCode string

const (
	ErrCodeUpstreamUnavailable ErrCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeRateLimited         ErrCode = "RATE_LIMITED"
	ErrCodeMalformedResponse   ErrCode = "MALFORMED_RESPONSE"
	ErrCodeBadRequest          ErrCode = "BAD_REQUEST"
	ErrCodeInternal            ErrCode = "INTERNAL_ERROR"
)

// AppError represents an application error
type AppError struct {
	Code    ErrCode
	Source  string // upstream platform the error originated from, if any
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewUpstreamUnavailableError creates an error for a source that could not
// be reached or answered with a non-success status
func NewUpstreamUnavailableError(source string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeUpstreamUnavailable,
		Source:  source,
		Message: fmt.Sprintf("%s API unavailable", source),
		Err:     err,
	}
}

// NewRateLimitedError creates an error for a rate-limited source
func NewRateLimitedError(source string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeRateLimited,
		Source:  source,
		Message: fmt.Sprintf("%s API rate limit exceeded", source),
		Err:     err,
	}
}

// NewMalformedResponseError creates an error for a response body that could
// not be decoded into the expected schema
func NewMalformedResponseError(source string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeMalformedResponse,
		Source:  source,
		Message: fmt.Sprintf("%s API returned an undecodable body", source),
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
	}
}

// CodeOf returns the error code carried by err, or ErrCodeInternal when err
// is not an AppError
func CodeOf(err error) ErrCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// IsRateLimited checks if the error is a rate limited error
func IsRateLimited(err error) bool {
	return CodeOf(err) == ErrCodeRateLimited
}

// IsUpstreamUnavailable checks if the error is an upstream availability error
func IsUpstreamUnavailable(err error) bool {
	return CodeOf(err) == ErrCodeUpstreamUnavailable
}

// IsMalformedResponse checks if the error is a malformed response error
func IsMalformedResponse(err error) bool {
	return CodeOf(err) == ErrCodeMalformedResponse
}
