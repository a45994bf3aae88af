package errors

import (
	"fmt"
	"strings"

	"rectcli/pkg/contracts/domain"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeDecode     ErrorType = "DECODE"
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeExhausted  ErrorType = "EXHAUSTED"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeConfig     ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{Type: errType, Message: message, Cause: cause}
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ErrTypeValidation, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// DecodeError means no encoding in the configured list produced text.
// It is the only stage-local fatal condition: downstream stages have no
// meaningful input without text.
type DecodeError struct {
	Encodings []string
	Cause     error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	return fmt.Sprintf("[%s] could not decode file with encodings %v: %v",
		ErrTypeDecode, e.Encodings, e.Cause)
}

// Unwrap returns the underlying decode failure
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// StrategyError reports a single tokenization strategy failure. It is
// always recovered locally by the fallback orchestrator and only reaches
// the caller embedded in an ExhaustedError.
type StrategyError struct {
	Strategy string
	Cause    error
}

// Error implements the error interface
func (e *StrategyError) Error() string {
	return fmt.Sprintf("[%s] strategy %s failed: %v", ErrTypeParsing, e.Strategy, e.Cause)
}

// Unwrap returns the underlying tokenization failure
func (e *StrategyError) Unwrap() error {
	return e.Cause
}

// ExhaustedError means every tokenization strategy failed. It carries the
// delimiter guess, the modal column count observed in the sample, and the
// full ordered audit trail of strategy attempts.
type ExhaustedError struct {
	Delimiter string
	ModalCols int
	Attempts  []domain.ParseAttempt
}

// Error formats the full diagnostic trail as a single descriptive message
func (e *ExhaustedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] could not parse file without dropping rows (delimiter %q, modal column count %d):",
		ErrTypeExhausted, e.Delimiter, e.ModalCols)
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "\n - %s: %s", a.Strategy, a.Error)
	}
	return b.String()
}
