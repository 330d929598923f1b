package query

import "strings"

// OperatorKind is the canonical operator vocabulary. Every wire token
// maps to exactly one kind; compilation pattern-matches on the kind,
// never on the raw token.
type OperatorKind int

const (
	OpEq OperatorKind = iota
	OpIEq
	OpNeq
	OpGt
	OpGte
	OpLt
	OpLte
	OpIn
	OpNotIn
	OpContains
	OpIContains
	OpNotContains
	OpNotIContains
	OpStartsWith
	OpNotStartsWith
	OpEndsWith
	OpNotEndsWith
	OpIsTrue
	OpIsFalse
)

var operatorNames = map[OperatorKind]string{
	OpEq:            "eq",
	OpIEq:           "ieq",
	OpNeq:           "neq",
	OpGt:            "gt",
	OpGte:           "gte",
	OpLt:            "lt",
	OpLte:           "lte",
	OpIn:            "in",
	OpNotIn:         "not_in",
	OpContains:      "contains",
	OpIContains:     "icontains",
	OpNotContains:   "not_contains",
	OpNotIContains:  "not_icontains",
	OpStartsWith:    "starts_with",
	OpNotStartsWith: "not_starts_with",
	OpEndsWith:      "ends_with",
	OpNotEndsWith:   "not_ends_with",
	OpIsTrue:        "is_true",
	OpIsFalse:       "is_false",
}

func (k OperatorKind) String() string {
	return operatorNames[k]
}

// IsTextMatch reports whether the operator is one of the wildcard text
// matching family, which requires a textual column.
func (k OperatorKind) IsTextMatch() bool {
	switch k {
	case OpContains, OpIContains, OpNotContains, OpNotIContains,
		OpStartsWith, OpNotStartsWith, OpEndsWith, OpNotEndsWith:
		return true
	}
	return false
}

// IsInsensitive reports whether the operator selects the dialect's
// case-insensitive match primitive.
func (k OperatorKind) IsInsensitive() bool {
	switch k {
	case OpIEq, OpIContains, OpNotIContains:
		return true
	}
	return false
}

// IsNegated reports whether the operator negates its match.
func (k OperatorKind) IsNegated() bool {
	switch k {
	case OpNeq, OpNotIn, OpNotContains, OpNotIContains,
		OpNotStartsWith, OpNotEndsWith:
		return true
	}
	return false
}

// IsSetMembership reports whether the operator takes a value set.
func (k OperatorKind) IsSetMembership() bool {
	return k == OpIn || k == OpNotIn
}

// IsBooleanLiteral reports whether the operator ignores its value and
// binds a boolean literal instead.
func (k OperatorKind) IsBooleanLiteral() bool {
	return k == OpIsTrue || k == OpIsFalse
}

// IsOrdinal reports whether the operator compares magnitudes.
func (k OperatorKind) IsOrdinal() bool {
	switch k {
	case OpGt, OpGte, OpLt, OpLte:
		return true
	}
	return false
}

var operatorRegistry = func() map[string]OperatorKind {
	reg := make(map[string]OperatorKind, len(operatorNames))
	for kind, token := range operatorNames {
		reg[token] = kind
	}
	return reg
}()

// LookupOperator maps a wire token to its canonical kind.
// Returns UnknownOperatorError for tokens outside the registry.
func LookupOperator(token string) (OperatorKind, error) {
	kind, ok := operatorRegistry[strings.ToLower(token)]
	if !ok {
		return 0, NewUnknownOperatorError(token)
	}
	return kind, nil
}

// WildcardPattern applies the operator's wildcarding to a text value:
// %value% for contains, value% for starts_with, %value for ends_with.
// LIKE metacharacters in the value are escaped so they match literally.
func (k OperatorKind) WildcardPattern(value string) string {
	escaped := escapeLikeValue(value)
	switch k {
	case OpContains, OpIContains, OpNotContains, OpNotIContains:
		return "%" + escaped + "%"
	case OpStartsWith, OpNotStartsWith:
		return escaped + "%"
	case OpEndsWith, OpNotEndsWith:
		return "%" + escaped
	default:
		return escaped
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLikeValue(value string) string {
	return likeEscaper.Replace(value)
}

// SplitMembershipValue normalizes the value of an in/not_in operator
// into a set: arrays pass through, scalars split on commas
// (query-string mode).
func SplitMembershipValue(value any) []any {
	switch v := value.(type) {
	case []any:
		return v
	case []string:
		set := make([]any, len(v))
		for i, s := range v {
			set[i] = s
		}
		return set
	case string:
		parts := strings.Split(v, ",")
		set := make([]any, 0, len(parts))
		for _, p := range parts {
			set = append(set, strings.TrimSpace(p))
		}
		return set
	default:
		return []any{value}
	}
}
