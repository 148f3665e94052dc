package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// DecodeError marks bytes that could not be decoded as a document.
// Keys whose bytes fail decoding are relocated to the error namespace
// and never retried.
type DecodeError struct {
	Name  string
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Name, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// NewDecodeError wraps a decode failure for the named object.
func NewDecodeError(name string, cause error) *DecodeError {
	return &DecodeError{Name: name, Cause: cause}
}

// IsDecodeError reports whether err carries a DecodeError anywhere in its chain.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// StoreError marks a failed object-store operation. Store errors abort
// the current attempt for one key only; the caller moves on.
type StoreError struct {
	Op    string
	Key   string
	Cause error
}

func (e *StoreError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("store %s %s: %v", e.Op, e.Key, e.Cause)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// NewStoreError wraps a store failure for the given operation and key.
func NewStoreError(op, key string, cause error) *StoreError {
	return &StoreError{Op: op, Key: key, Cause: cause}
}

// IsStoreError reports whether err carries a StoreError anywhere in its chain.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
