package query

import (
	sq "github.com/Masterminds/squirrel"
)

// CombinatorKind tags a boolean combinator node.
type CombinatorKind int

const (
	CombineAnd CombinatorKind = iota
	CombineOr
)

func (k CombinatorKind) String() string {
	if k == CombineOr {
		return "or"
	}
	return "and"
}

// Predicate is the compiled filter tree: either a Clause leaf or a
// Combinator over child predicates. A nil Predicate means "always
// true" and contributes no constraint.
type Predicate interface {
	isPredicate()
}

// Clause is a compiled leaf: a resolved field, a canonical operator
// and the transformed value.
type Clause struct {
	Field FieldRef
	Op    OperatorKind
	Value any
}

func (Clause) isPredicate() {}

// Combinator composes child predicates with AND or OR.
type Combinator struct {
	Kind     CombinatorKind
	Children []Predicate
}

func (Combinator) isPredicate() {}

// Dialect supplies the text matching primitives of the target SQL
// dialect. Implemented by the executor adapter; the compiler never
// hardcodes a dialect.
type Dialect interface {
	// Match renders a case-sensitive wildcard match of column against
	// pattern, negated when negate is set.
	Match(column, pattern string, negate bool) sq.Sqlizer
	// InsensitiveMatch is the case-insensitive variant (e.g. ILIKE on
	// Postgres, LOWER/LIKE elsewhere).
	InsensitiveMatch(column, pattern string, negate bool) sq.Sqlizer
}

// RenderPredicate converts a compiled predicate into a squirrel
// Sqlizer. A nil result means no constraint (the caller omits WHERE).
func RenderPredicate(p Predicate, dialect Dialect, baseAlias string) sq.Sqlizer {
	switch node := p.(type) {
	case nil:
		return nil
	case Clause:
		return renderClause(node, dialect, baseAlias)
	case Combinator:
		parts := make([]sq.Sqlizer, 0, len(node.Children))
		for _, child := range node.Children {
			if rendered := RenderPredicate(child, dialect, baseAlias); rendered != nil {
				parts = append(parts, rendered)
			}
		}
		if len(parts) == 0 {
			return nil
		}
		if len(parts) == 1 {
			return parts[0]
		}
		if node.Kind == CombineOr {
			return sq.Or(parts)
		}
		return sq.And(parts)
	default:
		return nil
	}
}

func renderClause(c Clause, dialect Dialect, baseAlias string) sq.Sqlizer {
	column := c.Field.SQLColumn(baseAlias)

	switch c.Op {
	case OpEq:
		return sq.Eq{column: c.Value}
	case OpNeq:
		return sq.NotEq{column: c.Value}
	case OpGt:
		return sq.Gt{column: c.Value}
	case OpGte:
		return sq.GtOrEq{column: c.Value}
	case OpLt:
		return sq.Lt{column: c.Value}
	case OpLte:
		return sq.LtOrEq{column: c.Value}
	case OpIn:
		return sq.Eq{column: c.Value}
	case OpNotIn:
		return sq.NotEq{column: c.Value}
	case OpIsTrue:
		return sq.Eq{column: true}
	case OpIsFalse:
		return sq.Eq{column: false}
	case OpIEq:
		return dialect.InsensitiveMatch(column, c.Value.(string), false)
	case OpContains, OpStartsWith, OpEndsWith:
		return dialect.Match(column, c.Value.(string), false)
	case OpNotContains, OpNotStartsWith, OpNotEndsWith:
		return dialect.Match(column, c.Value.(string), true)
	case OpIContains:
		return dialect.InsensitiveMatch(column, c.Value.(string), false)
	case OpNotIContains:
		return dialect.InsensitiveMatch(column, c.Value.(string), true)
	default:
		return nil
	}
}

// joinSet accumulates required joins in first-reference order.
// Repeated chains, and every prefix of a nested chain, are recorded
// once so the executor can join hop by hop.
type joinSet struct {
	seen  map[string]struct{}
	joins []RequiredJoin
}

func newJoinSet() *joinSet {
	return &joinSet{seen: make(map[string]struct{})}
}

func (s *joinSet) add(chain []string) {
	for i := 1; i <= len(chain); i++ {
		prefix := chain[:i]
		key := joinAliasName(prefix)
		if _, ok := s.seen[key]; ok {
			continue
		}
		s.seen[key] = struct{}{}
		s.joins = append(s.joins, RequiredJoin{Chain: append([]string(nil), prefix...)})
	}
}

func (s *joinSet) merge(other []RequiredJoin) {
	for _, j := range other {
		s.add(j.Chain)
	}
}

func (s *joinSet) list() []RequiredJoin {
	return s.joins
}
