package domain

import (
	"errors"
	"fmt"
)

// Reason classifies failures reported to callers.
type Reason string

const (
	ReasonInvalidCredentials   Reason = "invalid_credentials"
	ReasonUnauthenticated      Reason = "unauthenticated"
	ReasonMissingRequiredField Reason = "missing_required_field"
	ReasonConsentRequired      Reason = "consent_required"
	ReasonFileRequired         Reason = "file_required"
	ReasonFileTooLarge         Reason = "file_too_large"
	ReasonUnsupportedFileType  Reason = "unsupported_file_type"
	ReasonDeliveryFailed       Reason = "delivery_failed"
	ReasonInvalidRequest       Reason = "invalid_request"
	ReasonInternal             Reason = "internal_error"
)

// Error is a classified failure. Two errors match under errors.Is when
// their reasons are equal.
type Error struct {
	Reason  Reason
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Reason == e.Reason
}

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = &Error{Reason: ReasonInvalidCredentials, Message: "Invalid credentials"}
	// ErrUnauthenticated is returned when a protected operation has no valid session.
	ErrUnauthenticated = &Error{Reason: ReasonUnauthenticated, Message: "Authentication required"}
)

var (
	ErrMissingRequiredField = &Error{Reason: ReasonMissingRequiredField, Message: "Please fill in all required fields."}
	ErrConsentRequired      = &Error{Reason: ReasonConsentRequired, Message: "Consent is required to process your application."}
	ErrFileRequired         = &Error{Reason: ReasonFileRequired, Message: "Please upload your resume."}
	ErrFileTooLarge         = &Error{Reason: ReasonFileTooLarge, Message: "File is too large. Maximum size is 5MB."}
	ErrUnsupportedFileType  = &Error{Reason: ReasonUnsupportedFileType, Message: "Only PDF, DOC, and DOCX files are allowed!"}
	ErrDeliveryFailed       = &Error{Reason: ReasonDeliveryFailed, Message: "Internal server error. Please try again later."}
	ErrInvalidRequest       = &Error{Reason: ReasonInvalidRequest, Message: "Invalid request body."}
	ErrInternal             = &Error{Reason: ReasonInternal, Message: "Internal server error"}
)

// MissingField reports the first required field that was empty.
func MissingField(field string) error {
	return &Error{
		Reason:  ReasonMissingRequiredField,
		Message: fmt.Sprintf("Missing required field: %s", field),
		Field:   field,
	}
}

// Wrap classifies err under the reason and message of kind.
func Wrap(kind *Error, err error) error {
	return &Error{Reason: kind.Reason, Message: kind.Message, Err: err}
}

// ReasonOf extracts the reason of err, defaulting to ReasonInternal.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ReasonInternal
}
