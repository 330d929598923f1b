package query

import "context"

// ListOptions carries the per-entity inputs of one listing call:
// schema, joinable relations, policies, defaults and the projection
// configuration. Assembled by the consuming service's catalog.
type ListOptions struct {
	Schema        Schema
	Includes      IncludeGraph
	FilterPolicy  Policy
	OrderPolicy   Policy
	OrderDefaults OrderDefaults
	PageDefaults  PageDefaults
	Projection    *ProjectionConfig
}

// Result is the outcome of an executed listing: the projected rows,
// the resolved ordering and pagination, and the unpaginated total.
type Result struct {
	Rows   []Row
	Order  []OrderEntry
	Window Window
	Total  int
}

// TotalPages returns the page count for the result's window.
func (r *Result) TotalPages() int {
	if r.Window.Size <= 0 {
		return 1
	}
	pages := (r.Total + r.Window.Size - 1) / r.Window.Size
	if pages == 0 {
		pages = 1
	}
	return pages
}

// Assembler orchestrates one request end to end: compile pagination,
// predicate and ordering into an ExecutionPlan, run it through the
// executor, then project surrogate keys out of the returned rows.
type Assembler struct {
	compiler  *Compiler
	dialect   Dialect
	executor  Executor
	projector *Projector
}

func NewAssembler(compiler *Compiler, dialect Dialect, executor Executor, projector *Projector) *Assembler {
	return &Assembler{
		compiler:  compiler,
		dialect:   dialect,
		executor:  executor,
		projector: projector,
	}
}

// Compile builds the execution plan without running it. Compilation is
// deterministic and side-effect free; the first validation error
// (filter tree first, then ordering) aborts the whole compile.
func (a *Assembler) Compile(req *ListRequest, opts ListOptions) (*ExecutionPlan, error) {
	window := CompilePagination(req.Paging, opts.PageDefaults)

	filter, err := a.compiler.CompileFilter(req.Filtering, opts.Schema, opts.Includes, opts.FilterPolicy)
	if err != nil {
		return nil, err
	}

	order, orderJoins, err := a.compiler.CompileOrder(req.Ordering, opts.Schema, opts.Includes, opts.OrderPolicy, opts.OrderDefaults)
	if err != nil {
		return nil, err
	}

	joins := newJoinSet()
	joins.merge(filter.Joins)
	joins.merge(orderJoins)

	return &ExecutionPlan{
		Entity:    opts.Schema.Entity,
		Predicate: filter.Sqlizer(a.dialect, opts.Schema.Entity),
		Joins:     joins.list(),
		Order:     order,
		Window:    window,
	}, nil
}

// List compiles, executes and projects one listing request.
func (a *Assembler) List(ctx context.Context, req *ListRequest, opts ListOptions) (*Result, error) {
	plan, err := a.Compile(req, opts)
	if err != nil {
		return nil, err
	}

	rows, total, err := a.executor.Run(ctx, plan)
	if err != nil {
		return nil, err
	}

	rows, err = a.projector.Project(ctx, rows, opts.Projection)
	if err != nil {
		return nil, err
	}

	return &Result{
		Rows:   rows,
		Order:  plan.Order,
		Window: plan.Window,
		Total:  total,
	}, nil
}
