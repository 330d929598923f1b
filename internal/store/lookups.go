package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/andrewsinnovations/apialize-sub000/internal/catalog"
)

// Lookups resolves internal surrogate keys to external identifiers in
// batches, one query per entity.
type Lookups struct {
	db      QueryInterceptor
	catalog *catalog.Catalog
}

func NewLookups(db QueryInterceptor, cat *catalog.Catalog) *Lookups {
	return &Lookups{db: db, catalog: cat}
}

// BatchFind returns the internal → external identifier mapping for the
// given key values. Values without a matching row are simply absent
// from the result.
func (l *Lookups) BatchFind(ctx context.Context, entity, internalPK, externalID string, values []any) (map[any]any, error) {
	if len(values) == 0 {
		return map[any]any{}, nil
	}

	ent, err := l.catalog.Entity(entity)
	if err != nil {
		return nil, err
	}

	sqlStr, args, err := sq.Select(quoted(internalPK), quoted(externalID)).
		From(ent.Table).
		Where(sq.Eq{quoted(internalPK): values}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := l.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[any]any, len(values))
	for rows.Next() {
		var internal, external any
		if err := rows.Scan(&internal, &external); err != nil {
			return nil, err
		}
		found[internal] = external
	}
	return found, rows.Err()
}

func quoted(column string) string {
	return fmt.Sprintf("%q", column)
}
