package query

import (
	"sort"

	sq "github.com/Masterminds/squirrel"
)

// FilterSpec is a raw filter node: an implicit-AND object of
// field → value pairs, optionally holding "and"/"or" arrays of child
// nodes. Built fresh per request, never mutated by compilation.
type FilterSpec map[string]any

// CompiledFilter is the result of compiling a FilterSpec: the
// predicate tree plus every join the predicate needs. A nil Root
// matches all rows.
type CompiledFilter struct {
	Root  Predicate
	Joins []RequiredJoin
}

// Sqlizer renders the compiled predicate for execution; nil means no
// WHERE clause.
func (f *CompiledFilter) Sqlizer(dialect Dialect, baseAlias string) sq.Sqlizer {
	return RenderPredicate(f.Root, dialect, baseAlias)
}

// Compiler compiles filter and order specifications against a schema
// catalog. Compilation is pure: no state survives a call.
type Compiler struct {
	resolver *FieldResolver
}

func NewCompiler(catalog SchemaCatalog, mappings map[string]ForeignKeyMapping) *Compiler {
	return &Compiler{resolver: NewFieldResolver(catalog, mappings)}
}

// CompileFilter compiles spec into a predicate tree, enforcing the
// field policy independently per clause and validating every value
// against its resolved column type. The first violation aborts the
// whole compile; no partial predicate is ever returned.
func (c *Compiler) CompileFilter(spec FilterSpec, schema Schema, includes IncludeGraph, policy Policy) (*CompiledFilter, error) {
	gate := NewPolicyGate(policy)
	joins := newJoinSet()

	root, err := c.compileNode(map[string]any(spec), schema, includes, gate, joins)
	if err != nil {
		return nil, err
	}
	return &CompiledFilter{Root: root, Joins: joins.list()}, nil
}

// compileNode compiles one filter object. Keys are processed in
// lexicographic order so identical specs always compile to identical
// trees.
func (c *Compiler) compileNode(node any, schema Schema, includes IncludeGraph, gate *PolicyGate, joins *joinSet) (Predicate, error) {
	if node == nil {
		return nil, nil
	}
	spec, err := asObject(node)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(spec))
	for k := range spec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var children []Predicate
	for _, key := range keys {
		value := spec[key]
		switch key {
		case "and":
			group, err := c.compileGroup(value, CombineAnd, schema, includes, gate, joins)
			if err != nil {
				return nil, err
			}
			// AND groups merge structurally into the parent so
			// equivalent specs compile to one compact conjunction.
			if merged, ok := group.(Combinator); ok && merged.Kind == CombineAnd {
				children = append(children, merged.Children...)
			} else if group != nil {
				children = append(children, group)
			}
		case "or":
			group, err := c.compileGroup(value, CombineOr, schema, includes, gate, joins)
			if err != nil {
				return nil, err
			}
			if group != nil {
				children = append(children, group)
			}
		default:
			leaves, err := c.compileField(key, value, schema, includes, gate, joins)
			if err != nil {
				return nil, err
			}
			children = append(children, leaves...)
		}
	}

	switch len(children) {
	case 0:
		return nil, nil
	case 1:
		return children[0], nil
	default:
		return Combinator{Kind: CombineAnd, Children: children}, nil
	}
}

// compileGroup compiles an "and"/"or" array. An empty or fully
// no-op group contributes "true" to its parent.
func (c *Compiler) compileGroup(value any, kind CombinatorKind, schema Schema, includes IncludeGraph, gate *PolicyGate, joins *joinSet) (Predicate, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, NewMalformedSpecError(kind.String() + " expects an array of filter objects")
	}

	var children []Predicate
	for _, item := range items {
		child, err := c.compileNode(item, schema, includes, gate, joins)
		if err != nil {
			return nil, err
		}
		if child == nil {
			continue
		}
		if kind == CombineAnd {
			// Flatten nested conjunctions; or sub-trees carry
			// through unmerged.
			if nested, ok := child.(Combinator); ok && nested.Kind == CombineAnd {
				children = append(children, nested.Children...)
				continue
			}
		}
		children = append(children, child)
	}

	if len(children) == 0 {
		return nil, nil
	}
	if kind == CombineOr {
		// Disjunctions stay explicit even with one child.
		return Combinator{Kind: CombineOr, Children: children}, nil
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return Combinator{Kind: CombineAnd, Children: children}, nil
}

// compileField compiles one field key of an implicit-AND object: a
// scalar/array value becomes a default-operator leaf, an object value
// applies each recognized operator key to the field.
func (c *Compiler) compileField(token string, value any, schema Schema, includes IncludeGraph, gate *PolicyGate, joins *joinSet) ([]Predicate, error) {
	if operators, ok := value.(map[string]any); ok {
		opTokens := make([]string, 0, len(operators))
		for op := range operators {
			opTokens = append(opTokens, op)
		}
		sort.Strings(opTokens)

		var leaves []Predicate
		for _, opToken := range opTokens {
			kind, err := LookupOperator(opToken)
			if err != nil {
				// Unrecognized operator keys inside an object are
				// dropped so future operator extensions degrade to
				// a no-op instead of breaking old deployments.
				continue
			}
			leaf, err := c.compileLeaf(token, kind, operators[opToken], schema, includes, gate, joins)
			if err != nil {
				return nil, err
			}
			leaves = append(leaves, leaf)
		}
		return leaves, nil
	}

	// Scalar or array value: pick the default operator for the
	// resolved column type.
	leaf, err := c.compileDefaultLeaf(token, value, schema, includes, gate, joins)
	if err != nil {
		return nil, err
	}
	return []Predicate{leaf}, nil
}

func (c *Compiler) compileDefaultLeaf(token string, value any, schema Schema, includes IncludeGraph, gate *PolicyGate, joins *joinSet) (Predicate, error) {
	if _, isList := value.([]any); isList {
		return c.compileLeaf(token, OpIn, value, schema, includes, gate, joins)
	}

	admitted, err := gate.Admit(token)
	if err != nil {
		return nil, err
	}
	_, colType, err := c.resolver.Resolve(admitted, schema, includes)
	if err != nil {
		return nil, err
	}

	// Bare equality on text columns is case-insensitive; strict
	// equality everywhere else.
	op := OpEq
	if colType.IsTextual() {
		if _, isString := value.(string); isString {
			op = OpIEq
		}
	}
	return c.compileLeaf(token, op, value, schema, includes, gate, joins)
}

// compileLeaf performs the full per-clause pipeline: policy admission,
// field resolution, operator/type validation, value transformation and
// join collection.
func (c *Compiler) compileLeaf(token string, op OperatorKind, raw any, schema Schema, includes IncludeGraph, gate *PolicyGate, joins *joinSet) (Predicate, error) {
	admitted, err := gate.Admit(token)
	if err != nil {
		return nil, err
	}
	ref, colType, err := c.resolver.Resolve(admitted, schema, includes)
	if err != nil {
		return nil, err
	}

	if (op.IsTextMatch() || op == OpIEq) && !colType.IsTextual() {
		return nil, NewTypeMismatchError(token, TypeText, raw)
	}

	var value any
	switch {
	case op.IsBooleanLiteral():
		if colType != TypeBoolean && colType != TypeOther {
			return nil, NewTypeMismatchError(token, TypeBoolean, raw)
		}
		value = nil // bound as a literal at render time
	case op.IsSetMembership():
		members := SplitMembershipValue(raw)
		set := make([]any, 0, len(members))
		for _, m := range members {
			coerced, err := coerceValue(token, colType, m)
			if err != nil {
				return nil, err
			}
			set = append(set, coerced)
		}
		value = set
	case op.IsTextMatch():
		text, err := coerceText(token, raw)
		if err != nil {
			return nil, err
		}
		value = op.WildcardPattern(text.(string))
	case op == OpIEq:
		text, err := coerceText(token, raw)
		if err != nil {
			return nil, err
		}
		value = escapeLikeValue(text.(string))
	default:
		value, err = coerceValue(token, colType, raw)
		if err != nil {
			return nil, err
		}
	}

	if len(ref.JoinChain) > 0 {
		joins.add(ref.JoinChain)
	}

	return Clause{Field: ref, Op: op, Value: value}, nil
}

func asObject(node any) (map[string]any, error) {
	switch v := node.(type) {
	case map[string]any:
		return v, nil
	case FilterSpec:
		return map[string]any(v), nil
	default:
		return nil, NewMalformedSpecError("filter node must be an object")
	}
}
