package shared

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies a domain error for transport mapping and retry policy
type ErrorKind string

const (
	KindUnauthorized        ErrorKind = "unauthorized"
	KindNotFound            ErrorKind = "not_found"
	KindConflict            ErrorKind = "conflict"
	KindValidation          ErrorKind = "validation"
	KindPrecondition        ErrorKind = "precondition"
	KindRateLimited         ErrorKind = "rate_limited"
	KindQuotaExceeded       ErrorKind = "quota_exceeded"
	KindTransactionConflict ErrorKind = "transaction_conflict"
	KindTransient           ErrorKind = "transient"
	KindInternal            ErrorKind = "internal"
)

// DomainError is the base error type for all domain errors. Every error
// surfaced to a caller carries a kind for transport mapping, a stable
// machine-readable code, and a human message.
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message}
}

// KindOf classifies an error through wrapped chains. Errors that carry no
// DomainError are Internal.
func KindOf(err error) ErrorKind {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindInternal
}

// CodeOf returns the stable code of an error through wrapped chains,
// or "internal" when none is present.
func CodeOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return "internal"
}

// Retryable reports whether the error is a bounded-retry candidate
// (optimistic conflicts and transient storage/network failures).
func Retryable(err error) bool {
	kind := KindOf(err)
	return kind == KindTransactionConflict || kind == KindTransient
}

func NewUnauthorizedError(message string) *DomainError {
	return &DomainError{Kind: KindUnauthorized, Code: "unauthorized", Message: message}
}

func NewNotFoundError(resource, id string) *DomainError {
	return &DomainError{
		Kind:    KindNotFound,
		Code:    resource + "_not_found",
		Message: fmt.Sprintf("%s %s not found", resource, id),
	}
}

func NewConflictError(code, message string) *DomainError {
	return &DomainError{Kind: KindConflict, Code: code, Message: message}
}

func NewPreconditionError(code, message string) *DomainError {
	return &DomainError{Kind: KindPrecondition, Code: code, Message: message}
}

func NewTransactionConflictError(message string) *DomainError {
	return &DomainError{Kind: KindTransactionConflict, Code: "transaction_conflict", Message: message}
}

func NewTransientError(message string) *DomainError {
	return &DomainError{Kind: KindTransient, Code: "transient", Message: message}
}

func NewInternalError(message string) *DomainError {
	return &DomainError{Kind: KindInternal, Code: "internal", Message: message}
}

// ValidationError reports a malformed field in an action payload
type ValidationError struct {
	*DomainError
	Field string
}

func (e *ValidationError) Unwrap() error { return e.DomainError }

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		DomainError: &DomainError{
			Kind:    KindValidation,
			Code:    "validation",
			Message: fmt.Sprintf("%s: %s", field, message),
		},
		Field: field,
	}
}

// RateLimitedError carries the suggested delay before the next attempt
type RateLimitedError struct {
	*DomainError
	RetryAfter time.Duration
}

func (e *RateLimitedError) Unwrap() error { return e.DomainError }

func NewRateLimitedError(retryAfter time.Duration) *RateLimitedError {
	return &RateLimitedError{
		DomainError: &DomainError{
			Kind:    KindRateLimited,
			Code:    "rate_limited",
			Message: fmt.Sprintf("rate limited: retry in %s", retryAfter.Round(time.Millisecond)),
		},
		RetryAfter: retryAfter,
	}
}

// QuotaExceededError reports daily action quota exhaustion
type QuotaExceededError struct {
	*DomainError
	Used  int
	Limit int
}

func (e *QuotaExceededError) Unwrap() error { return e.DomainError }

func NewQuotaExceededError(used, limit int) *QuotaExceededError {
	return &QuotaExceededError{
		DomainError: &DomainError{
			Kind:    KindQuotaExceeded,
			Code:    "quota_exceeded",
			Message: fmt.Sprintf("daily action quota exhausted: %d of %d used", used, limit),
		},
		Used:  used,
		Limit: limit,
	}
}
