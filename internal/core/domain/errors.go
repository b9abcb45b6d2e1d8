package domain

import (
	"errors"
	"fmt"
)

// Validation issue codes. Errors block scoring; warnings do not.
const (
	CodeMissingRequiredField  = "MISSING_REQUIRED_FIELD"
	CodeInvalidPrice          = "INVALID_PRICE"
	CodeInvalidBedroomCount   = "INVALID_BEDROOM_COUNT"
	CodeInvalidPostcodeFormat = "INVALID_POSTCODE_FORMAT"
	CodeImplausiblePrice      = "IMPLAUSIBLE_PRICE"
	CodeUnusualBedroomCount   = "UNUSUAL_BEDROOM_COUNT"
	CodeUnknownPropertyType   = "UNKNOWN_PROPERTY_TYPE"
)

// FieldIssue describes one validation finding on one field.
type FieldIssue struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (i FieldIssue) Error() string {
	return fmt.Sprintf("%s: %s (%s)", i.Field, i.Message, i.Code)
}

// ConfigurationError marks an invalid criteria profile. It is returned at
// construction time, never during record processing.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid criteria: %s %s", e.Field, e.Reason)
}

// EnrichmentFailure records a lookup that did not produce a value. The
// pipeline degrades to a sentinel instead of failing the record.
type EnrichmentFailure struct {
	Field string
	Cause error
}

func (e *EnrichmentFailure) Error() string {
	return fmt.Sprintf("enrichment of %s failed: %v", e.Field, e.Cause)
}

func (e *EnrichmentFailure) Unwrap() error { return e.Cause }

var (
	// ErrPropertyNotFound is returned by storage when no record matches.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrDuplicateProperty is returned when a property id already exists
	// and the caller did not ask for an update.
	ErrDuplicateProperty = errors.New("property already exists")
)
