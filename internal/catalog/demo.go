package catalog

import "github.com/andrewsinnovations/apialize-sub000/pkg/query"

// Default returns the catalog of the demo dataset seeded by the store:
// products belong to a category and an owner, owners belong to a
// company. products and owners expose external identifiers instead of
// their surrogate keys.
func Default() (*Catalog, error) {
	internalColumns := query.Policy{
		BlockList: []string{"internal_id", "owner_id", "category_id", "company_id"},
	}

	products := &Entity{
		Name:  "products",
		Table: "products",
		Schema: query.NewSchema("products",
			query.Column{Name: "internal_id", Type: query.TypeInteger},
			query.Column{Name: "public_sku", Type: query.TypeText},
			query.Column{Name: "name", Type: query.TypeText},
			query.Column{Name: "status", Type: query.TypeText},
			query.Column{Name: "price", Type: query.TypeDecimal},
			query.Column{Name: "score", Type: query.TypeInteger},
			query.Column{Name: "active", Type: query.TypeBoolean},
			query.Column{Name: "created_at", Type: query.TypeDate},
			query.Column{Name: "owner_id", Type: query.TypeInteger},
			query.Column{Name: "category_id", Type: query.TypeInteger},
		),
		Relations: map[string]query.Relation{
			"owner":    {Alias: "owner", Target: "owners", SourceColumn: "owner_id", TargetColumn: "internal_id"},
			"category": {Alias: "category", Target: "categories", SourceColumn: "category_id", TargetColumn: "id"},
		},
		Includes: query.IncludeGraph{Includes: []query.Include{
			{Alias: "owner", Target: "owners", Children: []query.Include{
				{Alias: "company", Target: "companies"},
			}},
			{Alias: "category", Target: "categories"},
		}},
		Mapping:       &query.ForeignKeyMapping{Entity: "products", InternalPK: "internal_id", ExternalID: "public_sku"},
		FilterPolicy:  internalColumns,
		OrderPolicy:   internalColumns,
		OrderDefaults: query.OrderDefaults{Column: "internal_id", Token: "id"},
		Projection: &query.ProjectionConfig{
			Entity:      "products",
			IDColumn:    "internal_id",
			ForeignKeys: map[string]string{"owner_id": "owners"},
			Nested: map[string]*query.ProjectionConfig{
				"owner": {
					Entity:   "owners",
					IDColumn: "internal_id",
					Nested: map[string]*query.ProjectionConfig{
						"company": {Entity: "companies", IDColumn: "id"},
					},
				},
				"category": {Entity: "categories", IDColumn: "id"},
			},
		},
	}

	owners := &Entity{
		Name:  "owners",
		Table: "owners",
		Schema: query.NewSchema("owners",
			query.Column{Name: "internal_id", Type: query.TypeInteger},
			query.Column{Name: "public_id", Type: query.TypeText},
			query.Column{Name: "email", Type: query.TypeText},
			query.Column{Name: "name", Type: query.TypeText},
			query.Column{Name: "company_id", Type: query.TypeInteger},
		),
		Relations: map[string]query.Relation{
			"company": {Alias: "company", Target: "companies", SourceColumn: "company_id", TargetColumn: "id"},
		},
		Includes: query.IncludeGraph{Includes: []query.Include{
			{Alias: "company", Target: "companies"},
		}},
		Mapping:       &query.ForeignKeyMapping{Entity: "owners", InternalPK: "internal_id", ExternalID: "public_id"},
		FilterPolicy:  internalColumns,
		OrderPolicy:   internalColumns,
		OrderDefaults: query.OrderDefaults{Column: "internal_id", Token: "id"},
		Projection: &query.ProjectionConfig{
			Entity:   "owners",
			IDColumn: "internal_id",
			Nested: map[string]*query.ProjectionConfig{
				"company": {Entity: "companies", IDColumn: "id"},
			},
		},
	}

	categories := &Entity{
		Name:  "categories",
		Table: "categories",
		Schema: query.NewSchema("categories",
			query.Column{Name: "id", Type: query.TypeInteger},
			query.Column{Name: "name", Type: query.TypeText},
			query.Column{Name: "slug", Type: query.TypeText},
		),
		OrderDefaults: query.OrderDefaults{Column: "id"},
		// Small reference table, one page is enough.
		PageSize:   50,
		Projection: &query.ProjectionConfig{Entity: "categories", IDColumn: "id"},
	}

	companies := &Entity{
		Name:  "companies",
		Table: "companies",
		Schema: query.NewSchema("companies",
			query.Column{Name: "id", Type: query.TypeInteger},
			query.Column{Name: "name", Type: query.TypeText},
		),
		OrderDefaults: query.OrderDefaults{Column: "id"},
		Projection:    &query.ProjectionConfig{Entity: "companies", IDColumn: "id"},
	}

	return New(products, owners, categories, companies)
}
