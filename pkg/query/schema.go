package query

import "fmt"

// ColumnType classifies a column for value validation and operator
// selection.
type ColumnType int

const (
	TypeOther ColumnType = iota
	TypeInteger
	TypeDecimal
	TypeBoolean
	TypeDate
	TypeText
)

var columnTypeNames = map[ColumnType]string{
	TypeOther:   "other",
	TypeInteger: "integer",
	TypeDecimal: "decimal",
	TypeBoolean: "boolean",
	TypeDate:    "date",
	TypeText:    "text",
}

func (t ColumnType) String() string {
	if name, ok := columnTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// IsTextual reports whether the column holds text, which switches bare
// equality to the case-insensitive primitive and enables the text
// matching operators.
func (t ColumnType) IsTextual() bool {
	return t == TypeText
}

// Column is a named, typed column of an entity.
type Column struct {
	Name string
	Type ColumnType
}

// Schema describes the columns of one entity, in declaration order.
// Read-only; supplied per compile call.
type Schema struct {
	Entity  string
	Columns []Column

	index map[string]ColumnType
}

// NewSchema builds a Schema with a name lookup index.
func NewSchema(entity string, columns ...Column) Schema {
	index := make(map[string]ColumnType, len(columns))
	for _, c := range columns {
		index[c.Name] = c.Type
	}
	return Schema{Entity: entity, Columns: columns, index: index}
}

// Column returns the type of the named column.
func (s Schema) Column(name string) (ColumnType, bool) {
	t, ok := s.index[name]
	return t, ok
}

// Include is one node of the include graph: a relation joined for this
// request, possibly with nested includes of its own.
type Include struct {
	Alias    string
	Target   string // target entity name
	Through  string // optional join table for many-to-many
	Children []Include
}

// IncludeGraph is the tree of relations joined for a request.
// Read-only; an empty graph means only base-entity fields resolve.
type IncludeGraph struct {
	Includes []Include
}

// Find returns the include with the given alias at this level.
func (g IncludeGraph) Find(alias string) (Include, bool) {
	for _, inc := range g.Includes {
		if inc.Alias == alias {
			return inc, true
		}
	}
	return Include{}, false
}

// Relation describes how an alias on an entity reaches its target.
// SourceColumn is the foreign key on the owning side, TargetColumn the
// key it references.
type Relation struct {
	Alias        string
	Target       string
	Through      string
	SourceColumn string
	TargetColumn string
}

// SchemaCatalog supplies schema metadata. Implemented by the consuming
// service's entity catalog; the compiler never owns schema definitions.
type SchemaCatalog interface {
	// Columns returns the schema of the named entity.
	Columns(entity string) (Schema, error)
	// ResolveAlias resolves a relation alias declared on entity.
	ResolveAlias(entity, alias string) (Relation, error)
}

// ForeignKeyMapping configures the substitution of an entity's internal
// surrogate key with its externally exposed identifier.
type ForeignKeyMapping struct {
	Entity     string
	InternalPK string
	ExternalID string
}

// FieldRef is the resolved location of a filter or order field: the
// entity owning the column and the alias chain of joins needed to
// reach it. An empty chain means a base-entity column.
type FieldRef struct {
	Entity    string
	Column    string
	JoinChain []string
}

// SQLColumn returns the qualified, quoted column reference for the
// compiled query. Joined entities are addressed by their alias chain
// joined with '_', matching the executor's join aliasing.
func (f FieldRef) SQLColumn(baseAlias string) string {
	alias := baseAlias
	if len(f.JoinChain) > 0 {
		alias = joinAliasName(f.JoinChain)
	}
	return fmt.Sprintf("%s.%q", alias, f.Column)
}

// RequiredJoin records a relation that must be joined because a clause
// or order entry references a field behind it.
type RequiredJoin struct {
	Chain []string
}

// Alias returns the SQL alias the executor uses for this join.
func (j RequiredJoin) Alias() string {
	return joinAliasName(j.Chain)
}

func joinAliasName(chain []string) string {
	name := chain[0]
	for _, hop := range chain[1:] {
		name += "_" + hop
	}
	return name
}
