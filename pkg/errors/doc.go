// Package errors provides the service-level error types of the listing
// API, complementing the request-validation taxonomy owned by
// pkg/query.
//
// Each error type includes a constructor, Error() method, and a
// type-checking helper using errors.As for proper error unwrapping.
//
// # Error Types Overview
//
//	┌────────────────────────┬────────┬───────────────────────────────────┐
//	│ Error Type             │ HTTP   │ Description                       │
//	├────────────────────────┼────────┼───────────────────────────────────┤
//	│ UnknownEntityError     │ 404    │ Entity not registered in catalog  │
//	│ CatalogDefinitionError │ n/a    │ Invalid entity definition (boot)  │
//	│ ExportError            │ 500    │ Spreadsheet rendering failed      │
//	└────────────────────────┴────────┴───────────────────────────────────┘
//
// CatalogDefinitionError never reaches a handler: the catalog validates
// itself at startup and a failure aborts the process.
//
// # Type Checking Pattern
//
// All error types provide Is* helper functions that use errors.As for
// proper error chain unwrapping:
//
//	func IsUnknownEntityError(err error) bool {
//	    var e *UnknownEntityError
//	    return errors.As(err, &e)
//	}
//
// Handlers map these together with the pkg/query taxonomy:
//
//	switch {
//	case errors.IsUnknownEntityError(err):
//	    c.JSON(http.StatusNotFound, ...)
//	case query.IsValidationError(err):
//	    c.JSON(http.StatusBadRequest, ...)
//	default:
//	    c.JSON(http.StatusInternalServerError, ...)
//	}
package errors
