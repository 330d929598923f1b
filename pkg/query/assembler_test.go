package query

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fakeExecutor pages over an in-memory dataset, recording the plan it
// was handed.
type fakeExecutor struct {
	dataset []Row
	plan    *ExecutionPlan
	err     error
}

func (f *fakeExecutor) Run(_ context.Context, plan *ExecutionPlan) ([]Row, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	f.plan = plan

	start := int(plan.Window.Offset)
	if start > len(f.dataset) {
		start = len(f.dataset)
	}
	end := start + int(plan.Window.Limit)
	if end > len(f.dataset) {
		end = len(f.dataset)
	}
	return f.dataset[start:end], len(f.dataset), nil
}

var _ = Describe("QueryAssembler", func() {
	var (
		executor  *fakeExecutor
		assembler *Assembler
		opts      ListOptions
	)

	BeforeEach(func() {
		executor = &fakeExecutor{dataset: []Row{
			{"internal_id": int64(1), "name": "Anvil"},
			{"internal_id": int64(2), "name": "Bolt"},
			{"internal_id": int64(3), "name": "Crate"},
			{"internal_id": int64(4), "name": "Drill"},
		}}
		lookups := &fakeLookups{byEntity: map[string]map[any]any{
			"products": {
				int64(1): "sku-001", int64(2): "sku-002",
				int64(3): "sku-003", int64(4): "sku-004",
			},
		}}
		assembler = NewAssembler(
			newTestCompiler(),
			testDialect{},
			executor,
			NewProjector(lookups, testMappings),
		)
		opts = ListOptions{
			Schema:        mustSchema("products"),
			Includes:      testIncludes,
			OrderDefaults: OrderDefaults{Column: "internal_id"},
			PageDefaults:  PageDefaults{DefaultSize: 20, MaxSize: 100},
			Projection:    &ProjectionConfig{Entity: "products", IDColumn: "internal_id"},
		}
	})

	It("returns the requested window with projected identifiers", func() {
		req := &ListRequest{Filtering: FilterSpec{}, Paging: PageSpec{Page: 2, Size: 2}}

		result, err := assembler.List(context.Background(), req, opts)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Rows).To(Equal([]Row{
			{"id": "sku-003", "name": "Crate"},
			{"id": "sku-004", "name": "Drill"},
		}))
		Expect(result.Total).To(Equal(4))
		Expect(result.Window).To(Equal(Window{Page: 2, Size: 2, Limit: 2, Offset: 2}))
		Expect(result.TotalPages()).To(Equal(2))
	})

	It("compiles filter, order and paging into one plan", func() {
		req := &ListRequest{
			Filtering: FilterSpec{"owner.email": map[string]any{"ends_with": "@example.com"}},
			Ordering:  "-owner.email,name",
			Paging:    PageSpec{Page: 1, Size: 10},
		}

		plan, err := assembler.Compile(req, opts)
		Expect(err).ToNot(HaveOccurred())
		Expect(plan.Entity).To(Equal("products"))
		Expect(plan.Predicate).ToNot(BeNil())
		Expect(plan.Joins).To(Equal([]RequiredJoin{{Chain: []string{"owner"}}}))
		Expect(plan.Order).To(HaveLen(2))
		Expect(plan.Order[0].Desc).To(BeTrue())
		Expect(plan.Window.Limit).To(Equal(uint64(10)))
	})

	It("merges filter and order joins without duplicates", func() {
		req := &ListRequest{
			Filtering: FilterSpec{"owner.email": "a@example.com"},
			Ordering:  "owner.company.name",
		}

		plan, err := assembler.Compile(req, opts)
		Expect(err).ToNot(HaveOccurred())
		Expect(plan.Joins).To(Equal([]RequiredJoin{
			{Chain: []string{"owner"}},
			{Chain: []string{"owner", "company"}},
		}))
	})

	It("leaves the predicate nil for an empty filter", func() {
		plan, err := assembler.Compile(&ListRequest{Filtering: FilterSpec{}}, opts)
		Expect(err).ToNot(HaveOccurred())
		Expect(plan.Predicate).To(BeNil())
	})

	It("reports a clamped single page for small datasets", func() {
		req := &ListRequest{Filtering: FilterSpec{}}

		result, err := assembler.List(context.Background(), req, opts)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Rows).To(HaveLen(4))
		Expect(result.TotalPages()).To(Equal(1))
	})

	It("does not touch the executor when compilation fails", func() {
		req := &ListRequest{Filtering: FilterSpec{"bogus": 1}}

		_, err := assembler.List(context.Background(), req, opts)
		Expect(IsUnknownFieldError(err)).To(BeTrue())
		Expect(executor.plan).To(BeNil())
	})

	It("propagates executor failures", func() {
		executor.err = errors.New("database is closed")

		_, err := assembler.List(context.Background(), &ListRequest{Filtering: FilterSpec{}}, opts)
		Expect(err).To(MatchError("database is closed"))
	})
})
