// Package handlers implements the HTTP API layer of the listing
// service.
//
// Handlers parse the two wire grammars into a grammar-independent
// query.ListRequest, delegate to the services layer, and map errors to
// HTTP semantics. No query compilation or execution happens here.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Wire-grammar parsing (query string / JSON body)              │
//	│  - Error mapping to HTTP status codes                           │
//	│  - Envelope construction (api/v1)                               │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                 ListService (compile → run → project)           │
//	└─────────────────────────────────────────────────────────────────┘
//
// # API Endpoints
//
//	┌────────┬────────────────────┬─────────────────────────────────────┐
//	│ Method │ Endpoint           │ Description                         │
//	├────────┼────────────────────┼─────────────────────────────────────┤
//	│ GET    │ /{entity}          │ List via query-string grammar       │
//	│ POST   │ /{entity}/search   │ List via structured body grammar    │
//	│ GET    │ /{entity}/export   │ Same listing rendered as xlsx       │
//	└────────┴────────────────────┴─────────────────────────────────────┘
//
// Query-string mode supports field=value equality filters,
// field:operator=value explicit operators, order_by with an optional
// '-' prefix per column, and page/page_size pagination:
//
//	/products?status=active&price:gte=10&order_by=-price,name&page=2
//
// Body mode accepts the full recursive filter tree:
//
//	{
//	    "filtering": {"and": [{"status": "active"},
//	                          {"or": [{"price": {"lt": 10}},
//	                                  {"score": {"gte": 8}}]}]},
//	    "ordering": [{"order_by": "price", "direction": "desc"}],
//	    "paging": {"page": 1, "size": 20}
//	}
//
// # Error Handling
//
// Success responses wrap rows in {success, data, meta}; failures use
// {success: false, error}. Status code mapping:
//
//	┌──────────────────────────────┬────────┬──────────────────────────┐
//	│ Error Type                   │ Status │ When                     │
//	├──────────────────────────────┼────────┼──────────────────────────┤
//	│ query validation taxonomy    │ 400    │ Bad filter/order/paging  │
//	│ UnknownEntityError           │ 404    │ Entity not in catalog    │
//	│ LookupInfrastructureError    │ 500    │ Identifier lookup failed │
//	│ Anything else                │ 500    │ Executor/storage failure │
//	└──────────────────────────────┴────────┴──────────────────────────┘
//
// Validation detail is logged server-side only; clients get a generic
// message so catalog internals never leak through error text.
package handlers
