package utils

import (
	"errors"
	"fmt"
)

var (
	ErrorRecordNotFound    = errors.New("record not found")
	ErrorUnauthorized      = errors.New("unauthorized")
	ErrorTokenExpired      = errors.New("token has expired")
	ErrorInvalidToken      = errors.New("invalid token")
	ErrorInvalidPagination = errors.New("invalid pagination parameters")
)

// ValidationError carries per-field failures so the response layer can render
// a 400 with an errors list instead of a bare message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// DuplicateError marks unique-constraint violations (400, named field).
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s", e.Field)
}

func NewDuplicateError(field string) *DuplicateError {
	return &DuplicateError{Field: field}
}

// AuthError marks a credential failure. The response layer renders it as a
// 401 with the message, never as a server error.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}
