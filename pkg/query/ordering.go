package query

import "strings"

// OrderPair is the explicit wire form of one ordering entry.
type OrderPair struct {
	OrderBy   string `json:"order_by"`
	Direction string `json:"direction,omitempty"`
}

// OrderEntry is a compiled ordering entry. Token keeps the caller's
// field token so the applied ordering can be echoed back verbatim.
type OrderEntry struct {
	Field FieldRef
	Token string
	Desc  bool
}

// Pair re-serializes the entry into its explicit wire form.
func (e OrderEntry) Pair() OrderPair {
	direction := "asc"
	if e.Desc {
		direction = "desc"
	}
	return OrderPair{OrderBy: e.Token, Direction: direction}
}

// SQL renders the entry for an ORDER BY clause.
func (e OrderEntry) SQL(baseAlias string) string {
	direction := " ASC"
	if e.Desc {
		direction = " DESC"
	}
	return e.Field.SQLColumn(baseAlias) + direction
}

// OrderDefaults configures the fallback ordering and the direction of
// unprefixed tokens. Token is the public name echoed back for the
// fallback entry; the column name is echoed when it is empty.
type OrderDefaults struct {
	Column string
	Token  string
	Desc   bool
}

type orderToken struct {
	token string
	desc  *bool // nil: use the default direction
}

// CompileOrder compiles an order specification: either the
// comma-separated prefixed-string grammar ("name,-price"), a single
// {order_by, direction} object, or an array of them. Every token
// resolves and passes the ordering policy exactly like a filter field;
// a bad token aborts with the same error taxonomy, never a silent
// skip. When nothing usable remains the defaults produce a single
// entry, so the result is never empty and pagination stays stable.
func (c *Compiler) CompileOrder(spec any, schema Schema, includes IncludeGraph, policy Policy, defaults OrderDefaults) ([]OrderEntry, []RequiredJoin, error) {
	tokens, err := normalizeOrderSpec(spec)
	if err != nil {
		return nil, nil, err
	}

	gate := NewPolicyGate(policy)
	joins := newJoinSet()

	entries := make([]OrderEntry, 0, len(tokens))
	for _, t := range tokens {
		admitted, err := gate.Admit(t.token)
		if err != nil {
			return nil, nil, err
		}
		ref, _, err := c.resolver.Resolve(admitted, schema, includes)
		if err != nil {
			return nil, nil, err
		}
		desc := defaults.Desc
		if t.desc != nil {
			desc = *t.desc
		}
		if len(ref.JoinChain) > 0 {
			joins.add(ref.JoinChain)
		}
		entries = append(entries, OrderEntry{Field: ref, Token: t.token, Desc: desc})
	}

	if len(entries) == 0 {
		ref, _, err := c.resolver.Resolve(defaults.Column, schema, includes)
		if err != nil {
			return nil, nil, err
		}
		token := defaults.Token
		if token == "" {
			token = defaults.Column
		}
		entries = append(entries, OrderEntry{Field: ref, Token: token, Desc: defaults.Desc})
	}

	return entries, joins.list(), nil
}

func normalizeOrderSpec(spec any) ([]orderToken, error) {
	switch v := spec.(type) {
	case nil:
		return nil, nil
	case string:
		return parseOrderString(v), nil
	case OrderPair:
		t, err := pairToToken(map[string]any{"order_by": v.OrderBy, "direction": v.Direction})
		if err != nil {
			return nil, err
		}
		return []orderToken{t}, nil
	case []OrderPair:
		tokens := make([]orderToken, 0, len(v))
		for _, p := range v {
			t, err := pairToToken(map[string]any{"order_by": p.OrderBy, "direction": p.Direction})
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, t)
		}
		return tokens, nil
	case map[string]any:
		t, err := pairToToken(v)
		if err != nil {
			return nil, err
		}
		return []orderToken{t}, nil
	case []any:
		tokens := make([]orderToken, 0, len(v))
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, NewMalformedSpecError("ordering entries must be objects")
			}
			t, err := pairToToken(obj)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, t)
		}
		return tokens, nil
	default:
		return nil, NewMalformedSpecError("ordering must be a string, an object or an array of objects")
	}
}

// parseOrderString splits the query-string grammar: '-' prefixes
// DESC, '+' or no prefix takes the default direction.
func parseOrderString(raw string) []orderToken {
	var tokens []orderToken
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch {
		case strings.HasPrefix(part, "-"):
			desc := true
			tokens = append(tokens, orderToken{token: part[1:], desc: &desc})
		case strings.HasPrefix(part, "+"):
			tokens = append(tokens, orderToken{token: part[1:]})
		default:
			tokens = append(tokens, orderToken{token: part})
		}
	}
	return tokens
}

func pairToToken(obj map[string]any) (orderToken, error) {
	field, ok := obj["order_by"].(string)
	if !ok || field == "" {
		return orderToken{}, NewMalformedSpecError("ordering entry missing order_by")
	}
	t := orderToken{token: field}
	if raw, present := obj["direction"]; present {
		direction, ok := raw.(string)
		if !ok {
			return orderToken{}, NewMalformedSpecError("ordering direction must be a string")
		}
		switch strings.ToLower(direction) {
		case "asc":
			asc := false
			t.desc = &asc
		case "desc":
			desc := true
			t.desc = &desc
		case "":
			// default direction applies
		default:
			return orderToken{}, NewMalformedSpecError("ordering direction must be asc or desc")
		}
	}
	return t, nil
}
