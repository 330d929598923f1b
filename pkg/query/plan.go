package query

import (
	"context"

	sq "github.com/Masterminds/squirrel"
)

// Row is one result row. Joined relations appear as nested Row values
// (or slices of them) under their include alias.
type Row = map[string]any

// ExecutionPlan is the fully compiled query handed to the executor.
// It is consumed exactly once, then discarded; nothing in it survives
// the request.
type ExecutionPlan struct {
	Entity    string
	Predicate sq.Sqlizer // nil when the filter matches all rows
	Joins     []RequiredJoin
	Order     []OrderEntry
	Window    Window
}

// Executor runs a compiled plan against storage. The compiler never
// executes queries itself.
type Executor interface {
	// Run returns the page of rows selected by the plan and the total
	// row count before pagination.
	Run(ctx context.Context, plan *ExecutionPlan) (rows []Row, total int, err error)
}

// LookupStore resolves internal surrogate keys to externally exposed
// identifiers in batches.
type LookupStore interface {
	// BatchFind returns the internal → external mapping for the given
	// internal key values of entity.
	BatchFind(ctx context.Context, entity, internalPK, externalID string, values []any) (map[any]any, error)
}
