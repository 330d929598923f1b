package store

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/andrewsinnovations/apialize-sub000/internal/catalog"
	"github.com/andrewsinnovations/apialize-sub000/pkg/query"
)

// nestedSep separates the join alias from the column name in the
// SELECT list; the row folder splits on it to rebuild nested objects.
const nestedSep = "__"

// Executor runs compiled listing plans. Joined entities are selected
// alongside the base columns and folded back into nested objects under
// their include alias.
type Executor struct {
	db      QueryInterceptor
	catalog *catalog.Catalog
}

func NewExecutor(db QueryInterceptor, cat *catalog.Catalog) *Executor {
	return &Executor{db: db, catalog: cat}
}

// joinedRelation is one resolved entry of the plan's join list.
type joinedRelation struct {
	alias       string
	parentAlias string
	relation    query.Relation
	target      *catalog.Entity
	chain       []string
}

// Run executes the plan and returns the requested page plus the total
// row count before pagination.
func (e *Executor) Run(ctx context.Context, plan *query.ExecutionPlan) ([]query.Row, int, error) {
	base, err := e.catalog.Entity(plan.Entity)
	if err != nil {
		return nil, 0, err
	}

	joined, err := e.resolveJoins(base, plan)
	if err != nil {
		return nil, 0, err
	}

	total, err := e.count(ctx, base, plan, joined)
	if err != nil {
		return nil, 0, err
	}

	builder := sq.Select(selectColumns(base, plan.Entity, joined)...).
		From(fmt.Sprintf("%s AS %s", base.Table, plan.Entity))
	builder = applyJoins(builder, joined)
	if plan.Predicate != nil {
		builder = builder.Where(plan.Predicate)
	}
	for _, entry := range plan.Order {
		builder = builder.OrderBy(entry.SQL(plan.Entity))
	}
	builder = builder.Limit(plan.Window.Limit).Offset(plan.Window.Offset)

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := e.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := scanRows(rows, joined)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// count runs the same FROM/JOIN/WHERE shape without ordering or
// pagination.
func (e *Executor) count(ctx context.Context, base *catalog.Entity, plan *query.ExecutionPlan, joined []joinedRelation) (int, error) {
	builder := sq.Select("COUNT(*)").
		From(fmt.Sprintf("%s AS %s", base.Table, plan.Entity))
	builder = applyJoins(builder, joined)
	if plan.Predicate != nil {
		builder = builder.Where(plan.Predicate)
	}

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var total int
	err = e.db.QueryRowContext(ctx, sqlStr, args...).Scan(&total)
	return total, err
}

// resolveJoins maps the plan's alias chains to relations and target
// entities. The plan's join list is prefix-closed and ordered, so every
// chain's parent appears before it.
func (e *Executor) resolveJoins(base *catalog.Entity, plan *query.ExecutionPlan) ([]joinedRelation, error) {
	byAlias := map[string]*catalog.Entity{plan.Entity: base}

	joined := make([]joinedRelation, 0, len(plan.Joins))
	for _, join := range plan.Joins {
		chain := join.Chain
		parentAlias := plan.Entity
		if len(chain) > 1 {
			parentAlias = query.RequiredJoin{Chain: chain[: len(chain)-1 : len(chain)-1]}.Alias()
		}
		parent, ok := byAlias[parentAlias]
		if !ok {
			return nil, fmt.Errorf("join %q has no resolved parent", join.Alias())
		}

		rel, err := e.catalog.ResolveAlias(parent.Name, chain[len(chain)-1])
		if err != nil {
			return nil, err
		}
		target, err := e.catalog.Entity(rel.Target)
		if err != nil {
			return nil, err
		}

		alias := join.Alias()
		byAlias[alias] = target
		joined = append(joined, joinedRelation{
			alias:       alias,
			parentAlias: parentAlias,
			relation:    rel,
			target:      target,
			chain:       chain,
		})
	}
	return joined, nil
}

func applyJoins(builder sq.SelectBuilder, joined []joinedRelation) sq.SelectBuilder {
	for _, j := range joined {
		builder = builder.LeftJoin(fmt.Sprintf(`%s AS %s ON %s.%q = %s.%q`,
			j.target.Table, j.alias,
			j.parentAlias, j.relation.SourceColumn,
			j.alias, j.relation.TargetColumn))
	}
	return builder
}

// selectColumns lists the base entity's columns under their own names
// and every joined entity's columns under alias__column.
func selectColumns(base *catalog.Entity, baseAlias string, joined []joinedRelation) []string {
	cols := make([]string, 0, len(base.Schema.Columns))
	for _, c := range base.Schema.Columns {
		cols = append(cols, fmt.Sprintf(`%s.%q AS %q`, baseAlias, c.Name, c.Name))
	}
	for _, j := range joined {
		for _, c := range j.target.Schema.Columns {
			cols = append(cols, fmt.Sprintf(`%s.%q AS %q`, j.alias, c.Name, j.alias+nestedSep+c.Name))
		}
	}
	return cols
}

// scanRows reads the flat result set and folds aliased columns back
// into nested objects along the join chains.
func scanRows(rows rowScanner, joined []joinedRelation) ([]query.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	chains := make(map[string][]string, len(joined))
	for _, j := range joined {
		chains[j.alias] = j.chain
	}

	out := make([]query.Row, 0)
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := query.Row{}
		for i, name := range columns {
			alias, column, nested := strings.Cut(name, nestedSep)
			if !nested {
				row[name] = values[i]
				continue
			}
			nestedRow(row, chains[alias])[column] = values[i]
		}
		pruneEmptyNested(row, joined)
		out = append(out, row)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// nestedRow descends the chain, creating nested maps as needed.
func nestedRow(row query.Row, chain []string) map[string]any {
	current := row
	for _, hop := range chain {
		child, ok := current[hop].(map[string]any)
		if !ok {
			child = map[string]any{}
			current[hop] = child
		}
		current = child
	}
	return current
}

// pruneEmptyNested nils out joined objects whose every column came back
// NULL, which is what an unmatched LEFT JOIN produces. Deepest chains
// first so an emptied child does not keep its parent alive.
func pruneEmptyNested(row query.Row, joined []joinedRelation) {
	for i := len(joined) - 1; i >= 0; i-- {
		chain := joined[i].chain
		parent := row
		for _, hop := range chain[:len(chain)-1] {
			child, ok := parent[hop].(map[string]any)
			if !ok {
				parent = nil
				break
			}
			parent = child
		}
		if parent == nil {
			continue
		}
		alias := chain[len(chain)-1]
		if child, ok := parent[alias].(map[string]any); ok && allNil(child) {
			parent[alias] = nil
		}
	}
}

func allNil(m map[string]any) bool {
	for _, v := range m {
		if v != nil {
			return false
		}
	}
	return true
}
