package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/andrewsinnovations/apialize-sub000/pkg/query"
)

// duckdbDialect renders the compiler's text-match primitives for
// DuckDB. Patterns carry backslash-escaped metacharacters, and DuckDB's
// LIKE has no default escape character, so every match names one
// explicitly. Case-insensitive matching uses ILIKE.
type duckdbDialect struct{}

// Dialect returns the DuckDB implementation of query.Dialect.
func Dialect() query.Dialect {
	return duckdbDialect{}
}

func (duckdbDialect) Match(column, pattern string, negate bool) sq.Sqlizer {
	if negate {
		return sq.Expr(column+` NOT LIKE ? ESCAPE '\'`, pattern)
	}
	return sq.Expr(column+` LIKE ? ESCAPE '\'`, pattern)
}

func (duckdbDialect) InsensitiveMatch(column, pattern string, negate bool) sq.Sqlizer {
	if negate {
		return sq.Expr(column+` NOT ILIKE ? ESCAPE '\'`, pattern)
	}
	return sq.Expr(column+` ILIKE ? ESCAPE '\'`, pattern)
}
