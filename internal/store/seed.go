package store

import (
	"context"
	"database/sql"
)

const demoSchema = `
CREATE TABLE IF NOT EXISTS companies (
	id INTEGER PRIMARY KEY,
	name VARCHAR
);
CREATE TABLE IF NOT EXISTS owners (
	internal_id INTEGER PRIMARY KEY,
	public_id VARCHAR,
	email VARCHAR,
	name VARCHAR,
	company_id INTEGER
);
CREATE TABLE IF NOT EXISTS categories (
	id INTEGER PRIMARY KEY,
	name VARCHAR,
	slug VARCHAR
);
CREATE TABLE IF NOT EXISTS products (
	internal_id INTEGER PRIMARY KEY,
	public_sku VARCHAR,
	name VARCHAR,
	status VARCHAR,
	price DOUBLE,
	score INTEGER,
	active BOOLEAN,
	created_at TIMESTAMP,
	owner_id INTEGER,
	category_id INTEGER
);
`

// Seed creates the demo tables and fills them when empty. The dataset
// matches the default catalog and backs the dev server and the
// store-level tests.
func Seed(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, demoSchema); err != nil {
		return err
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	statements := []string{
		`INSERT INTO companies VALUES
			(1, 'Initech'),
			(2, 'Globex')`,
		`INSERT INTO owners VALUES
			(1, 'own-ada', 'ada@initech.test', 'Ada', 1),
			(2, 'own-grace', 'grace@initech.test', 'Grace', 1),
			(3, 'own-linus', 'linus@globex.test', 'Linus', 2)`,
		`INSERT INTO categories VALUES
			(1, 'Electronics', 'electronics'),
			(2, 'Tools', 'tools'),
			(3, 'Office', 'office')`,
		`INSERT INTO products VALUES
			(1, 'sku-anvil', 'Anvil', 'active', 99.50, 7, true, '2026-01-12 09:00:00', 1, 2),
			(2, 'sku-bolt', 'Bolt Pack', 'active', 4.99, 9, true, '2026-01-19 10:30:00', 1, 2),
			(3, 'sku-cam', 'Camera', 'active', 249.00, 8, true, '2026-02-02 14:15:00', 2, 1),
			(4, 'sku-desk', 'Desk Lamp', 'discontinued', 39.90, 5, false, '2026-02-11 08:45:00', 2, 3),
			(5, 'sku-ewire', 'Ethernet Wire', 'active', 12.00, 6, true, '2026-03-01 16:20:00', 3, 1),
			(6, 'sku-fan', 'Fan', 'pending', 59.00, 4, false, '2026-03-15 11:05:00', 3, 1),
			(7, 'sku-glue', 'Glue 50%_extra', 'active', 3.25, 8, true, '2026-04-07 13:40:00', 1, 3),
			(8, 'sku-hinge', 'Hinge', 'active', 7.80, 7, true, '2026-04-21 15:55:00', 2, 2)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
