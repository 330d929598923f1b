package store_test

import (
	"context"
	"database/sql"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/andrewsinnovations/apialize-sub000/internal/catalog"
	"github.com/andrewsinnovations/apialize-sub000/internal/store"
	"github.com/andrewsinnovations/apialize-sub000/pkg/query"
)

var _ = Describe("Executor", func() {
	var (
		ctx      context.Context
		db       *sql.DB
		s        *store.Store
		cat      *catalog.Catalog
		compiler *query.Compiler
		products *catalog.Entity
	)

	BeforeEach(func() {
		ctx = context.Background()
		db, s, cat = newSeededStore(ctx)
		compiler = query.NewCompiler(cat, cat.Mappings())

		var err error
		products, err = cat.Entity("products")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	compile := func(req *query.ListRequest) *query.ExecutionPlan {
		assembler := query.NewAssembler(compiler, s.Dialect(), s.Executor(), nil)
		plan, err := assembler.Compile(req, listOptions(products))
		Expect(err).NotTo(HaveOccurred())
		return plan
	}

	names := func(rows []query.Row) []string {
		out := make([]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, r["name"].(string))
		}
		return out
	}

	It("lists every row in default order", func() {
		rows, total, err := s.Executor().Run(ctx, compile(&query.ListRequest{Filtering: query.FilterSpec{}}))
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(8))
		Expect(rows).To(HaveLen(8))
		Expect(rows[0]["name"]).To(Equal("Anvil"))
		Expect(rows[0]["public_sku"]).To(Equal("sku-anvil"))
	})

	It("filters text columns case-insensitively", func() {
		req := &query.ListRequest{Filtering: query.FilterSpec{"status": "ACTIVE"}}
		rows, total, err := s.Executor().Run(ctx, compile(req))
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(6))
		Expect(rows).To(HaveLen(6))
	})

	It("matches escaped wildcard characters literally", func() {
		req := &query.ListRequest{Filtering: query.FilterSpec{
			"name": map[string]any{"contains": "50%_"},
		}}
		rows, _, err := s.Executor().Run(ctx, compile(req))
		Expect(err).NotTo(HaveOccurred())
		Expect(names(rows)).To(Equal([]string{"Glue 50%_extra"}))
	})

	It("applies range filters and ordering", func() {
		req := &query.ListRequest{
			Filtering: query.FilterSpec{"price": map[string]any{"gte": 10, "lte": 100}},
			Ordering:  "-price",
		}
		rows, total, err := s.Executor().Run(ctx, compile(req))
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(4))
		Expect(names(rows)).To(Equal([]string{"Anvil", "Fan", "Desk Lamp", "Ethernet Wire"}))
	})

	It("paginates with a stable total", func() {
		req := &query.ListRequest{Paging: query.PageSpec{Page: 2, Size: 3}}
		rows, total, err := s.Executor().Run(ctx, compile(req))
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(8))
		Expect(names(rows)).To(Equal([]string{"Desk Lamp", "Ethernet Wire", "Fan"}))
	})

	It("joins related entities and folds them into nested objects", func() {
		req := &query.ListRequest{Filtering: query.FilterSpec{
			"owner.email": map[string]any{"ends_with": "@initech.test"},
		}}
		rows, total, err := s.Executor().Run(ctx, compile(req))
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(6))

		owner, ok := rows[0]["owner"].(map[string]any)
		Expect(ok).To(BeTrue())
		Expect(owner["email"]).To(Equal("ada@initech.test"))
	})

	It("reaches entities two joins away", func() {
		req := &query.ListRequest{Filtering: query.FilterSpec{
			"owner.company.name": map[string]any{"eq": "Globex"},
		}}
		rows, _, err := s.Executor().Run(ctx, compile(req))
		Expect(err).NotTo(HaveOccurred())
		Expect(names(rows)).To(Equal([]string{"Ethernet Wire", "Fan"}))

		owner := rows[0]["owner"].(map[string]any)
		company := owner["company"].(map[string]any)
		Expect(company["name"]).To(Equal("Globex"))
	})

	It("filters joined entities by their external identifier", func() {
		req := &query.ListRequest{Filtering: query.FilterSpec{"owner.id": "own-linus"}}
		rows, _, err := s.Executor().Run(ctx, compile(req))
		Expect(err).NotTo(HaveOccurred())
		Expect(names(rows)).To(Equal([]string{"Ethernet Wire", "Fan"}))
	})

	It("rejects plans for unknown entities", func() {
		plan := compile(&query.ListRequest{Filtering: query.FilterSpec{}})
		plan.Entity = "ghosts"
		_, _, err := s.Executor().Run(ctx, plan)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Lookups", func() {
	var (
		ctx context.Context
		db  *sql.DB
		s   *store.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		db, s, _ = newSeededStore(ctx)
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	It("maps internal keys to external identifiers", func() {
		found, err := s.Lookups().BatchFind(ctx, "products", "internal_id", "public_sku", []any{1, 2, 99})
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(HaveLen(2))
		Expect(found).To(ContainElement("sku-anvil"))
		Expect(found).To(ContainElement("sku-bolt"))
	})

	It("returns an empty map for an empty batch", func() {
		found, err := s.Lookups().BatchFind(ctx, "owners", "internal_id", "public_id", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeEmpty())
	})

	It("fails for unregistered entities", func() {
		_, err := s.Lookups().BatchFind(ctx, "ghosts", "id", "public_id", []any{1})
		Expect(err).To(HaveOccurred())
	})
})
