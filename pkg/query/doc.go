// Package query compiles caller-supplied filter, ordering and paging
// descriptions into an executable query plan against a fixed schema.
//
// Two wire grammars feed the compiler:
//
// --- QUERY-STRING MODE ---
//
//	field=value                  implicit AND, equality
//	field:operator=value         explicit operator (field:gte=100)
//	field:in=a,b,c               comma-separated membership
//	order_by=name,-price         ordering, '-' prefix for DESC
//	page=2&page_size=25          pagination
//
// --- BODY MODE ---
//
//	{
//	  "filtering": {
//	    "category": "electronics",
//	    "price": {"gte": 100, "lte": 500},
//	    "or": [{"status": "active"}, {"score": {"gte": 9}}]
//	  },
//	  "ordering": [{"order_by": "price", "direction": "desc"}],
//	  "paging": {"page": 2, "size": 25}
//	}
//
// Compilation is pure and synchronous: given the same spec, schema,
// include graph and policy it always produces the same plan or the same
// validation error. Field references may cross joins with dotted paths
// (owner.email, owner.company.name); every hop must match an alias in
// the request's include graph. Field-level allow/block policy is
// enforced independently for every clause. The first validation error
// aborts the whole compile; a partially applied filter is never
// returned.
//
// The compiled predicate renders to a squirrel Sqlizer through an
// injected Dialect, so the choice of case-insensitive match primitive
// (ILIKE vs LOWER/LIKE) stays with the executor adapter.
package query
