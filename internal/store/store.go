package store

import (
	"database/sql"

	"github.com/andrewsinnovations/apialize-sub000/internal/catalog"
	"github.com/andrewsinnovations/apialize-sub000/pkg/query"
)

// Store bundles the storage collaborators of the listing service: the
// plan executor, the identifier lookups and the SQL dialect.
type Store struct {
	db       *sql.DB
	executor *Executor
	lookups  *Lookups
}

func NewStore(db *sql.DB, cat *catalog.Catalog) *Store {
	interceptor := newQueryInterceptor(db)
	return &Store{
		db:       db,
		executor: NewExecutor(interceptor, cat),
		lookups:  NewLookups(interceptor, cat),
	}
}

func (s *Store) Executor() *Executor {
	return s.executor
}

func (s *Store) Lookups() *Lookups {
	return s.lookups
}

func (s *Store) Dialect() query.Dialect {
	return Dialect()
}

func (s *Store) Close() error {
	return s.db.Close()
}
