package query

import "strings"

// publicIDField is the conventional name under which entities expose
// their identifier, regardless of the underlying column.
const publicIDField = "id"

// FieldResolver resolves plain and dotted field tokens against a base
// schema and the request's include graph.
type FieldResolver struct {
	catalog  SchemaCatalog
	mappings map[string]ForeignKeyMapping
}

// NewFieldResolver builds a resolver. mappings may be nil when no
// entity uses surrogate key substitution.
func NewFieldResolver(catalog SchemaCatalog, mappings map[string]ForeignKeyMapping) *FieldResolver {
	return &FieldResolver{catalog: catalog, mappings: mappings}
}

// Resolve maps a field token to its owning entity, column and join
// chain. Dotted tokens hop through include-graph aliases in order; the
// final segment must be a column on the entity the chain reaches. Any
// failed hop or missing column yields UnknownFieldError naming the
// original token.
func (r *FieldResolver) Resolve(token string, base Schema, includes IncludeGraph) (FieldRef, ColumnType, error) {
	if token == "" {
		return FieldRef{}, 0, NewUnknownFieldError(token)
	}

	segments := strings.Split(token, ".")
	if len(segments) == 1 {
		colType, ok := base.Column(token)
		if !ok {
			return FieldRef{}, 0, NewUnknownFieldError(token)
		}
		return FieldRef{Entity: base.Entity, Column: token}, colType, nil
	}

	// Walk the alias hops. Each hop must be present in the include
	// graph at its nesting level.
	hops := segments[:len(segments)-1]
	column := segments[len(segments)-1]

	level := includes
	var reached Include
	for _, hop := range hops {
		inc, ok := level.Find(hop)
		if !ok {
			return FieldRef{}, 0, NewUnknownFieldError(token)
		}
		reached = inc
		level = IncludeGraph{Includes: inc.Children}
	}

	schema, err := r.catalog.Columns(reached.Target)
	if err != nil {
		return FieldRef{}, 0, NewUnknownFieldError(token)
	}

	// Filtering a joined entity by its public identifier executes
	// against the column that actually stores externally exposed
	// values, so callers never see the surrogate key.
	if mapping, ok := r.mappings[reached.Target]; ok && column == publicIDField {
		column = mapping.ExternalID
	}

	colType, ok := schema.Column(column)
	if !ok {
		return FieldRef{}, 0, NewUnknownFieldError(token)
	}

	return FieldRef{Entity: reached.Target, Column: column, JoinChain: hops}, colType, nil
}
