package query

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ProjectionConfig drives the post-execution rewrite of one entity's
// rows: which column is the internal identifier exposed as "id", which
// columns are foreign keys into other entities, and the configs of
// nested relation objects keyed by their include alias. The walk is
// driven by this config tree, never by the shape of the data, so
// self-referential joins cannot send it into a cycle.
type ProjectionConfig struct {
	Entity      string
	IDColumn    string
	ForeignKeys map[string]string
	Nested      map[string]*ProjectionConfig
}

// Projector substitutes internal surrogate keys with externally
// exposed identifiers after execution, batching one lookup per related
// entity.
type Projector struct {
	lookups  LookupStore
	mappings map[string]ForeignKeyMapping
}

func NewProjector(lookups LookupStore, mappings map[string]ForeignKeyMapping) *Projector {
	return &Projector{lookups: lookups, mappings: mappings}
}

// Project rewrites rows in three phases: discover every referenced
// internal value per entity, resolve them with one concurrent batched
// lookup per entity, then rewrite identifier and foreign-key fields
// (recursively through nested relation objects). Values the lookup
// could not resolve pass through unchanged. A failed lookup fails the
// whole request; no partially substituted rows are returned.
func (p *Projector) Project(ctx context.Context, rows []Row, cfg *ProjectionConfig) ([]Row, error) {
	if cfg == nil || len(rows) == 0 {
		return rows, nil
	}

	collected := make(map[string]map[any]struct{})
	for _, row := range rows {
		p.collect(row, cfg, collected)
	}

	resolved, err := p.resolve(ctx, collected)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		p.rewrite(row, cfg, resolved)
	}
	return rows, nil
}

// collect gathers the distinct internal values referenced by row for
// every entity that has a configured mapping.
func (p *Projector) collect(row Row, cfg *ProjectionConfig, out map[string]map[any]struct{}) {
	if row == nil {
		return
	}

	if cfg.IDColumn != "" {
		if _, mapped := p.mappings[cfg.Entity]; mapped {
			if v, ok := row[cfg.IDColumn]; ok && v != nil {
				addCollected(out, cfg.Entity, v)
			}
		}
	}

	for column, entity := range cfg.ForeignKeys {
		if _, mapped := p.mappings[entity]; !mapped {
			continue
		}
		if v, ok := row[column]; ok && v != nil {
			addCollected(out, entity, v)
		}
	}

	for alias, nested := range cfg.Nested {
		forEachNested(row[alias], func(child Row) {
			p.collect(child, nested, out)
		})
	}
}

// resolve issues one batched lookup per entity. Lookups touch no
// shared state, so they run concurrently; the first failure cancels
// the rest.
func (p *Projector) resolve(ctx context.Context, collected map[string]map[any]struct{}) (map[string]map[any]any, error) {
	entities := make([]string, 0, len(collected))
	for entity := range collected {
		entities = append(entities, entity)
	}

	results := make([]map[any]any, len(entities))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, entity := range entities {
		mapping := p.mappings[entity]
		values := make([]any, 0, len(collected[entity]))
		for v := range collected[entity] {
			values = append(values, v)
		}

		group.Go(func() error {
			found, err := p.lookups.BatchFind(groupCtx, entity, mapping.InternalPK, mapping.ExternalID, values)
			if err != nil {
				return NewLookupInfrastructureError(entity, err)
			}
			results[i] = found
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	resolved := make(map[string]map[any]any, len(entities))
	for i, entity := range entities {
		resolved[entity] = results[i]
	}
	return resolved, nil
}

// rewrite renames the internal identifier column to "id" and
// substitutes identifier and foreign-key values through the resolved
// maps, recursing into nested relation objects.
func (p *Projector) rewrite(row Row, cfg *ProjectionConfig, resolved map[string]map[any]any) {
	if row == nil {
		return
	}

	if cfg.IDColumn != "" {
		if v, ok := row[cfg.IDColumn]; ok {
			if cfg.IDColumn != publicIDField {
				delete(row, cfg.IDColumn)
			}
			row[publicIDField] = substitute(resolved, cfg.Entity, v)
		}
	}

	for column, entity := range cfg.ForeignKeys {
		if v, ok := row[column]; ok && v != nil {
			row[column] = substitute(resolved, entity, v)
		}
	}

	for alias, nested := range cfg.Nested {
		forEachNested(row[alias], func(child Row) {
			p.rewrite(child, nested, resolved)
		})
	}
}

// substitute maps an internal value to its external identifier,
// keeping the original when no mapping entry exists.
func substitute(resolved map[string]map[any]any, entity string, value any) any {
	if byValue, ok := resolved[entity]; ok {
		if external, ok := byValue[value]; ok {
			return external
		}
	}
	return value
}

func addCollected(out map[string]map[any]struct{}, entity string, value any) {
	set, ok := out[entity]
	if !ok {
		set = make(map[any]struct{})
		out[entity] = set
	}
	set[value] = struct{}{}
}

// forEachNested visits a nested relation value, which may be a single
// joined object or a slice of them.
func forEachNested(value any, visit func(Row)) {
	switch v := value.(type) {
	case map[string]any:
		visit(v)
	case []any:
		for _, item := range v {
			if child, ok := item.(map[string]any); ok {
				visit(child)
			}
		}
	case []Row:
		for _, child := range v {
			visit(child)
		}
	}
}
