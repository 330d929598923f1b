package catalog

import (
	"fmt"
	"sort"

	srvErrors "github.com/andrewsinnovations/apialize-sub000/pkg/errors"
	"github.com/andrewsinnovations/apialize-sub000/pkg/query"
)

// Entity is the static definition of one listable entity: its table,
// columns, joinable relations, policies and identifier mapping.
type Entity struct {
	// Name is the public path segment, e.g. /api/v1/products.
	Name  string
	Table string

	Schema    query.Schema
	Relations map[string]query.Relation
	Includes  query.IncludeGraph

	// Mapping, when set, hides the internal surrogate key behind the
	// externally exposed identifier column.
	Mapping *query.ForeignKeyMapping

	FilterPolicy  query.Policy
	OrderPolicy   query.Policy
	OrderDefaults query.OrderDefaults

	// PageSize overrides the configured default page size for this
	// entity. Zero means no override.
	PageSize int

	Projection *query.ProjectionConfig
}

// Catalog is the registry of listable entities. It implements
// query.SchemaCatalog and is validated once at construction; after that
// it is read-only and safe for concurrent use.
type Catalog struct {
	entities map[string]*Entity
	names    []string
}

func New(entities ...*Entity) (*Catalog, error) {
	c := &Catalog{entities: make(map[string]*Entity, len(entities))}
	for _, e := range entities {
		if _, dup := c.entities[e.Name]; dup {
			return nil, srvErrors.NewCatalogDefinitionError(e.Name, "registered twice")
		}
		c.entities[e.Name] = e
		c.names = append(c.names, e.Name)
	}
	sort.Strings(c.names)

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Entity returns the definition of the named entity.
func (c *Catalog) Entity(name string) (*Entity, error) {
	e, ok := c.entities[name]
	if !ok {
		return nil, srvErrors.NewUnknownEntityError(name)
	}
	return e, nil
}

// Names returns the registered entity names, sorted.
func (c *Catalog) Names() []string {
	return c.names
}

// Columns implements query.SchemaCatalog.
func (c *Catalog) Columns(entity string) (query.Schema, error) {
	e, err := c.Entity(entity)
	if err != nil {
		return query.Schema{}, err
	}
	return e.Schema, nil
}

// ResolveAlias implements query.SchemaCatalog.
func (c *Catalog) ResolveAlias(entity, alias string) (query.Relation, error) {
	e, err := c.Entity(entity)
	if err != nil {
		return query.Relation{}, err
	}
	rel, ok := e.Relations[alias]
	if !ok {
		return query.Relation{}, fmt.Errorf("entity %s has no relation %q", entity, alias)
	}
	return rel, nil
}

// Mappings returns the surrogate-key mappings of every entity that has
// one, keyed by entity name.
func (c *Catalog) Mappings() map[string]query.ForeignKeyMapping {
	mappings := make(map[string]query.ForeignKeyMapping)
	for name, e := range c.entities {
		if e.Mapping != nil {
			mappings[name] = *e.Mapping
		}
	}
	return mappings
}

// validate cross-checks every definition so misconfiguration fails the
// process at startup instead of surfacing as broken SQL at runtime.
func (c *Catalog) validate() error {
	for _, name := range c.names {
		e := c.entities[name]
		if e.Table == "" {
			return srvErrors.NewCatalogDefinitionError(name, "no table")
		}
		if e.Schema.Entity != name {
			return srvErrors.NewCatalogDefinitionError(name, "schema declared for "+e.Schema.Entity)
		}

		for alias, rel := range e.Relations {
			target, ok := c.entities[rel.Target]
			if !ok {
				return srvErrors.NewCatalogDefinitionError(name, fmt.Sprintf("relation %q targets unregistered entity %q", alias, rel.Target))
			}
			if _, ok := e.Schema.Column(rel.SourceColumn); !ok {
				return srvErrors.NewCatalogDefinitionError(name, fmt.Sprintf("relation %q uses unknown source column %q", alias, rel.SourceColumn))
			}
			if _, ok := target.Schema.Column(rel.TargetColumn); !ok {
				return srvErrors.NewCatalogDefinitionError(name, fmt.Sprintf("relation %q uses unknown target column %q", alias, rel.TargetColumn))
			}
		}

		if e.Mapping != nil {
			if _, ok := e.Schema.Column(e.Mapping.InternalPK); !ok {
				return srvErrors.NewCatalogDefinitionError(name, fmt.Sprintf("mapping uses unknown internal key %q", e.Mapping.InternalPK))
			}
			if _, ok := e.Schema.Column(e.Mapping.ExternalID); !ok {
				return srvErrors.NewCatalogDefinitionError(name, fmt.Sprintf("mapping uses unknown identifier column %q", e.Mapping.ExternalID))
			}
		}

		if err := c.validateIncludes(name, name, e.Includes.Includes); err != nil {
			return err
		}
		if err := c.validateProjection(name, e.Projection); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) validateIncludes(root, owner string, includes []query.Include) error {
	ownerEntity := c.entities[owner]
	for _, inc := range includes {
		rel, ok := ownerEntity.Relations[inc.Alias]
		if !ok {
			return srvErrors.NewCatalogDefinitionError(root, fmt.Sprintf("include %q has no relation on %s", inc.Alias, owner))
		}
		if rel.Target != inc.Target {
			return srvErrors.NewCatalogDefinitionError(root, fmt.Sprintf("include %q targets %q but its relation targets %q", inc.Alias, inc.Target, rel.Target))
		}
		if err := c.validateIncludes(root, inc.Target, inc.Children); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) validateProjection(root string, cfg *query.ProjectionConfig) error {
	if cfg == nil {
		return nil
	}
	owner, ok := c.entities[cfg.Entity]
	if !ok {
		return srvErrors.NewCatalogDefinitionError(root, fmt.Sprintf("projection references unregistered entity %q", cfg.Entity))
	}
	if cfg.IDColumn != "" {
		if _, ok := owner.Schema.Column(cfg.IDColumn); !ok {
			return srvErrors.NewCatalogDefinitionError(root, fmt.Sprintf("projection of %s uses unknown identifier column %q", cfg.Entity, cfg.IDColumn))
		}
	}
	for column, entity := range cfg.ForeignKeys {
		if _, ok := owner.Schema.Column(column); !ok {
			return srvErrors.NewCatalogDefinitionError(root, fmt.Sprintf("projection of %s maps unknown column %q", cfg.Entity, column))
		}
		if _, ok := c.entities[entity]; !ok {
			return srvErrors.NewCatalogDefinitionError(root, fmt.Sprintf("projection of %s maps %q to unregistered entity %q", cfg.Entity, column, entity))
		}
	}
	for _, nested := range cfg.Nested {
		if err := c.validateProjection(root, nested); err != nil {
			return err
		}
	}
	return nil
}
