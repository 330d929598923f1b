package query

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// ListRequest is a parsed, grammar-independent listing request: what
// the caller wants filtered, how ordered, and which page.
type ListRequest struct {
	Filtering FilterSpec
	Ordering  any
	Paging    PageSpec
}

// Query parameters that are not filter fields.
const (
	paramOrderBy  = "order_by"
	paramPage     = "page"
	paramPageSize = "page_size"
)

// ParseQuery parses the query-string grammar: field=value pairs are
// an implicit AND of equality clauses, field:operator=value selects an
// explicit operator, repeated fields collect into a membership set.
// An explicit operator token outside the registry fails here; the
// tolerant no-op behavior applies only to body-mode operator objects.
func ParseQuery(values url.Values) (*ListRequest, error) {
	req := &ListRequest{Filtering: FilterSpec{}}

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		switch key {
		case paramOrderBy:
			req.Ordering = vals[0]
			continue
		case paramPage:
			req.Paging.Page = lenientInt(vals[0])
			continue
		case paramPageSize:
			req.Paging.Size = lenientInt(vals[0])
			continue
		}

		field, opToken, explicit := strings.Cut(key, ":")
		if field == "" {
			return nil, NewMalformedSpecError("empty field name in query")
		}

		if explicit {
			if _, err := LookupOperator(opToken); err != nil {
				return nil, err
			}
			addQueryOperator(req.Filtering, field, opToken, vals[0])
			continue
		}

		// Repeated bare fields collect into one membership set.
		var bare any = vals[0]
		if len(vals) > 1 {
			set := make([]any, len(vals))
			for i, v := range vals {
				set[i] = v
			}
			bare = set
		}
		if _, taken := req.Filtering[field].(map[string]any); taken {
			// An explicit operator already claimed the field key;
			// keep the bare clause as an implicit-AND sibling.
			foldBareClause(req.Filtering, field, bare)
			continue
		}
		req.Filtering[field] = bare
	}

	return req, nil
}

// addQueryOperator merges an explicit operator clause into the filter
// object, preserving earlier operators and bare clauses on the same
// field. url.Values iteration order is unspecified, so both arrival
// orders must converge on the same spec.
func addQueryOperator(filtering FilterSpec, field, opToken, value string) {
	switch existing := filtering[field].(type) {
	case map[string]any:
		existing[opToken] = value
	case nil:
		filtering[field] = map[string]any{opToken: value}
	default:
		foldBareClause(filtering, field, existing)
		filtering[field] = map[string]any{opToken: value}
	}
}

// foldBareClause moves a bare equality that shares its field with an
// explicit operator into the "and" group, where its default-operator
// semantics survive unchanged.
func foldBareClause(filtering FilterSpec, field string, value any) {
	group, _ := filtering["and"].([]any)
	filtering["and"] = append(group, map[string]any{field: value})
}

func lenientInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

type bodyRequest struct {
	Filtering map[string]any `json:"filtering"`
	Ordering  any            `json:"ordering"`
	Paging    PageSpec       `json:"paging"`
}

// ParseBody parses the structured body grammar:
// {filtering: {...}, ordering: [...] | {...}, paging: {page, size}}.
func ParseBody(data []byte) (*ListRequest, error) {
	if len(data) == 0 {
		return &ListRequest{Filtering: FilterSpec{}}, nil
	}

	var body bodyRequest
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, NewMalformedSpecError("request body is not a valid listing request: " + err.Error())
	}

	req := &ListRequest{
		Filtering: FilterSpec(body.Filtering),
		Ordering:  body.Ordering,
		Paging:    body.Paging,
	}
	if req.Filtering == nil {
		req.Filtering = FilterSpec{}
	}
	return req, nil
}
