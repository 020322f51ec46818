package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound      = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists = new(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation    = new(ErrCodeValidation, "validation error")
	// ErrInvalidInput marks caller contract violations (non-positive price or
	// quantity, missing scope key). Never retried.
	ErrInvalidInput = new(ErrCodeInvalidInput, "invalid input")
	// ErrConfigConflict marks overlapping tier ranges detected at configuration
	// time. Pricing itself never raises it.
	ErrConfigConflict = new(ErrCodeConfigConflict, "configuration conflict")
	// ErrCollaborator marks a required external collaborator failure, e.g. the
	// tier store. Optional collaborators such as tax degrade instead.
	ErrCollaborator = new(ErrCodeCollaborator, "collaborator unavailable")
	// ErrEvaluation marks malformed policy or rule data. Distinct from a policy
	// rejection, which is a normal false outcome and not an error at all.
	ErrEvaluation = new(ErrCodeEvaluation, "evaluation failed")
	ErrHTTPClient = new(ErrCodeHTTPClient, "http client error")
	ErrDatabase   = new(ErrCodeDatabase, "database error")
	ErrSystem     = new(ErrCodeSystemError, "system error")

	// maps errors to http status codes
	statusCodeMap = map[error]int{
		ErrHTTPClient:     http.StatusInternalServerError,
		ErrDatabase:       http.StatusInternalServerError,
		ErrCollaborator:   http.StatusServiceUnavailable,
		ErrNotFound:       http.StatusNotFound,
		ErrAlreadyExists:  http.StatusConflict,
		ErrConfigConflict: http.StatusConflict,
		ErrValidation:     http.StatusBadRequest,
		ErrInvalidInput:   http.StatusBadRequest,
		ErrEvaluation:     http.StatusUnprocessableEntity,
		ErrSystem:         http.StatusInternalServerError,
	}
)

const (
	ErrCodeHTTPClient     = "http_client_error"
	ErrCodeSystemError    = "system_error"
	ErrCodeNotFound       = "not_found"
	ErrCodeAlreadyExists  = "already_exists"
	ErrCodeValidation     = "validation_error"
	ErrCodeInvalidInput   = "invalid_input"
	ErrCodeConfigConflict = "configuration_conflict"
	ErrCodeCollaborator   = "collaborator_unavailable"
	ErrCodeEvaluation     = "evaluation_failed"
	ErrCodeDatabase       = "database_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// new creates a new InternalError
func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidInput checks if an error is a caller contract violation
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConfigConflict checks if an error is a configuration conflict
func IsConfigConflict(err error) bool {
	return errors.Is(err, ErrConfigConflict)
}

// IsCollaborator checks if an error is a collaborator failure
func IsCollaborator(err error) bool {
	return errors.Is(err, ErrCollaborator)
}

// IsEvaluation checks if an error is a policy evaluation failure
func IsEvaluation(err error) bool {
	return errors.Is(err, ErrEvaluation)
}

// IsHTTPClient checks if an error is an http client error
func IsHTTPClient(err error) bool {
	return errors.Is(err, ErrHTTPClient)
}

// ErrCode resolves the machine-readable code for an error's sentinel mark.
// Specific domain marks win over the transport-level ones.
func ErrCode(err error) string {
	switch {
	case IsNotFound(err):
		return ErrCodeNotFound
	case IsAlreadyExists(err):
		return ErrCodeAlreadyExists
	case IsConfigConflict(err):
		return ErrCodeConfigConflict
	case IsValidation(err):
		return ErrCodeValidation
	case IsInvalidInput(err):
		return ErrCodeInvalidInput
	case IsEvaluation(err):
		return ErrCodeEvaluation
	case IsCollaborator(err):
		return ErrCodeCollaborator
	case IsHTTPClient(err):
		return ErrCodeHTTPClient
	case errors.Is(err, ErrDatabase):
		return ErrCodeDatabase
	default:
		return ErrCodeSystemError
	}
}

func HTTPStatusFromErr(err error) int {
	for e, status := range statusCodeMap {
		if errors.Is(err, e) {
			return status
		}
	}
	return http.StatusInternalServerError
}
