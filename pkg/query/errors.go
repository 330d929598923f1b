package query

import (
	"errors"
	"fmt"
)

// UnknownFieldError indicates a filter or order field that does not
// resolve to a column on the base entity or any joined entity.
type UnknownFieldError struct {
	Field string
}

func NewUnknownFieldError(field string) *UnknownFieldError {
	return &UnknownFieldError{Field: field}
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field: %s", e.Field)
}

func IsUnknownFieldError(err error) bool {
	var e *UnknownFieldError
	return errors.As(err, &e)
}

// UnknownOperatorError indicates an operator token absent from the
// operator registry.
type UnknownOperatorError struct {
	Operator string
}

func NewUnknownOperatorError(op string) *UnknownOperatorError {
	return &UnknownOperatorError{Operator: op}
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("unknown operator: %s", e.Operator)
}

func IsUnknownOperatorError(err error) bool {
	var e *UnknownOperatorError
	return errors.As(err, &e)
}

// TypeMismatchError indicates a filter value incompatible with the
// resolved column's type.
type TypeMismatchError struct {
	Field string
	Want  ColumnType
	Value any
}

func NewTypeMismatchError(field string, want ColumnType, value any) *TypeMismatchError {
	return &TypeMismatchError{Field: field, Want: want, Value: value}
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %s expects a %s value, got %v", e.Field, e.Want, e.Value)
}

func IsTypeMismatchError(err error) bool {
	var e *TypeMismatchError
	return errors.As(err, &e)
}

// PolicyViolationError indicates a field rejected by the active
// allow/block policy.
type PolicyViolationError struct {
	Field string
}

func NewPolicyViolationError(field string) *PolicyViolationError {
	return &PolicyViolationError{Field: field}
}

func (e *PolicyViolationError) Error() string {
	return fmt.Sprintf("field not allowed: %s", e.Field)
}

func IsPolicyViolationError(err error) bool {
	var e *PolicyViolationError
	return errors.As(err, &e)
}

// MalformedSpecError indicates a structurally invalid filter or order
// specification, e.g. a non-object filter node.
type MalformedSpecError struct {
	Detail string
}

func NewMalformedSpecError(detail string) *MalformedSpecError {
	return &MalformedSpecError{Detail: detail}
}

func (e *MalformedSpecError) Error() string {
	return fmt.Sprintf("malformed spec: %s", e.Detail)
}

func IsMalformedSpecError(err error) bool {
	var e *MalformedSpecError
	return errors.As(err, &e)
}

// LookupInfrastructureError wraps a failed identifier lookup during row
// projection. Unlike the validation errors above it is not the caller's
// fault and surfaces as a server error.
type LookupInfrastructureError struct {
	Entity string
	Err    error
}

func NewLookupInfrastructureError(entity string, err error) *LookupInfrastructureError {
	return &LookupInfrastructureError{Entity: entity, Err: err}
}

func (e *LookupInfrastructureError) Error() string {
	return fmt.Sprintf("identifier lookup for %s failed: %v", e.Entity, e.Err)
}

func (e *LookupInfrastructureError) Unwrap() error {
	return e.Err
}

func IsLookupInfrastructureError(err error) bool {
	var e *LookupInfrastructureError
	return errors.As(err, &e)
}

// IsValidationError reports whether err belongs to the validation-class
// taxonomy, i.e. should surface as a bad request rather than a server
// error.
func IsValidationError(err error) bool {
	return IsUnknownFieldError(err) ||
		IsUnknownOperatorError(err) ||
		IsTypeMismatchError(err) ||
		IsPolicyViolationError(err) ||
		IsMalformedSpecError(err)
}
