package query

import (
	"context"
	"errors"
	"fmt"
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fakeLookups serves canned internal → external mappings and records
// the batches it was asked for.
type fakeLookups struct {
	byEntity map[string]map[any]any
	calls    map[string][]any
	err      error
}

func (f *fakeLookups) BatchFind(_ context.Context, entity, internalPK, externalID string, values []any) (map[any]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.calls == nil {
		f.calls = make(map[string][]any)
	}
	f.calls[entity] = append(f.calls[entity], values...)

	found := make(map[any]any)
	for _, v := range values {
		if external, ok := f.byEntity[entity][v]; ok {
			found[v] = external
		}
	}
	return found, nil
}

var _ = Describe("ForeignKeyProjector", func() {
	var lookups *fakeLookups

	productConfig := &ProjectionConfig{
		Entity:      "products",
		IDColumn:    "internal_id",
		ForeignKeys: map[string]string{"owner_id": "owners"},
		Nested: map[string]*ProjectionConfig{
			"owner": {Entity: "owners", IDColumn: "internal_id"},
		},
	}

	BeforeEach(func() {
		lookups = &fakeLookups{byEntity: map[string]map[any]any{
			"products": {int64(7): "ext-007", int64(8): "ext-008"},
			"owners":   {int64(42): "own-042"},
		}}
	})

	newProjector := func() *Projector {
		return NewProjector(lookups, testMappings)
	}

	It("renames the internal identifier to id with the external value", func() {
		rows := []Row{{"internal_id": int64(7), "name": "Widget"}}

		projected, err := newProjector().Project(context.Background(), rows, productConfig)
		Expect(err).ToNot(HaveOccurred())
		Expect(projected[0]).To(Equal(Row{"id": "ext-007", "name": "Widget"}))
	})

	It("substitutes foreign-key columns through their own entity mapping", func() {
		rows := []Row{{"internal_id": int64(7), "owner_id": int64(42)}}

		projected, err := newProjector().Project(context.Background(), rows, productConfig)
		Expect(err).ToNot(HaveOccurred())
		Expect(projected[0]["owner_id"]).To(Equal("own-042"))
	})

	It("rewrites nested relation objects independently", func() {
		rows := []Row{{
			"internal_id": int64(7),
			"owner": map[string]any{
				"internal_id": int64(42),
				"email":       "a@example.com",
			},
		}}

		projected, err := newProjector().Project(context.Background(), rows, productConfig)
		Expect(err).ToNot(HaveOccurred())

		owner := projected[0]["owner"].(map[string]any)
		Expect(owner).To(Equal(map[string]any{
			"id":    "own-042",
			"email": "a@example.com",
		}))
	})

	It("passes values without a lookup entry through unchanged", func() {
		rows := []Row{{"internal_id": int64(99)}}

		projected, err := newProjector().Project(context.Background(), rows, productConfig)
		Expect(err).ToNot(HaveOccurred())
		Expect(projected[0]).To(Equal(Row{"id": int64(99)}))
	})

	It("batches distinct values once per entity", func() {
		rows := []Row{
			{"internal_id": int64(7), "owner_id": int64(42)},
			{"internal_id": int64(8), "owner_id": int64(42)},
			{"internal_id": int64(7)},
		}

		_, err := newProjector().Project(context.Background(), rows, productConfig)
		Expect(err).ToNot(HaveOccurred())

		products := lookups.calls["products"]
		sort.Slice(products, func(i, j int) bool {
			return fmt.Sprint(products[i]) < fmt.Sprint(products[j])
		})
		Expect(products).To(Equal([]any{int64(7), int64(8)}))
		Expect(lookups.calls["owners"]).To(Equal([]any{int64(42)}))
	})

	It("skips entities without a surrogate-key mapping", func() {
		cfg := &ProjectionConfig{
			Entity:   "categories",
			IDColumn: "id",
		}
		rows := []Row{{"id": int64(3), "name": "Tools"}}

		projected, err := newProjector().Project(context.Background(), rows, cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(projected[0]).To(Equal(Row{"id": int64(3), "name": "Tools"}))
		Expect(lookups.calls).To(BeEmpty())
	})

	It("ignores null identifier values", func() {
		rows := []Row{{"internal_id": nil, "name": "Orphan"}}

		projected, err := newProjector().Project(context.Background(), rows, productConfig)
		Expect(err).ToNot(HaveOccurred())
		Expect(projected[0]).To(Equal(Row{"id": nil, "name": "Orphan"}))
	})

	It("returns rows untouched when no projection is configured", func() {
		rows := []Row{{"internal_id": int64(7)}}

		projected, err := newProjector().Project(context.Background(), rows, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(projected[0]).To(Equal(Row{"internal_id": int64(7)}))
	})

	It("fails the whole request when a lookup fails", func() {
		lookups.err = errors.New("connection refused")
		rows := []Row{{"internal_id": int64(7)}}

		_, err := newProjector().Project(context.Background(), rows, productConfig)
		Expect(IsLookupInfrastructureError(err)).To(BeTrue())
		Expect(IsValidationError(err)).To(BeFalse())
	})
})
