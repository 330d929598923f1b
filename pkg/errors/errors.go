package errors

import (
	"errors"
	"fmt"
)

// UnknownEntityError indicates a listing request for an entity that is
// not registered in the catalog.
type UnknownEntityError struct {
	Entity string
}

func NewUnknownEntityError(entity string) *UnknownEntityError {
	return &UnknownEntityError{Entity: entity}
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown entity: %s", e.Entity)
}

// IsUnknownEntityError checks if the error is an UnknownEntityError.
func IsUnknownEntityError(err error) bool {
	var e *UnknownEntityError
	return errors.As(err, &e)
}

// CatalogDefinitionError indicates an inconsistent entity definition,
// detected when the catalog validates itself at startup.
type CatalogDefinitionError struct {
	Entity string
	Detail string
}

func NewCatalogDefinitionError(entity, detail string) *CatalogDefinitionError {
	return &CatalogDefinitionError{Entity: entity, Detail: detail}
}

func (e *CatalogDefinitionError) Error() string {
	return fmt.Sprintf("invalid definition of entity %s: %s", e.Entity, e.Detail)
}

func IsCatalogDefinitionError(err error) bool {
	var e *CatalogDefinitionError
	return errors.As(err, &e)
}

// ExportError indicates that rendering a listing to a spreadsheet
// failed after the query itself succeeded.
type ExportError struct {
	Entity string
	Err    error
}

func NewExportError(entity string, err error) *ExportError {
	return &ExportError{Entity: entity, Err: err}
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("exporting %s failed: %v", e.Entity, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

func IsExportError(err error) bool {
	var e *ExportError
	return errors.As(err, &e)
}
