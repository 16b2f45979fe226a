package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const createTailorsTable = `CREATE TABLE IF NOT EXISTS tailors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL,
	shop_name TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

const createCustomersTable = `CREATE TABLE IF NOT EXISTS customers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	customer_number TEXT UNIQUE NOT NULL,
	name TEXT NOT NULL,
	contact_number TEXT,
	address TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

const createMeasurementsTable = `CREATE TABLE IF NOT EXISTS measurements (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	order_id INTEGER,
	measurement_type TEXT NOT NULL,
	value REAL,
	unit TEXT DEFAULT 'inch',
	FOREIGN KEY (order_id) REFERENCES orders (id)
)`

const createMeasurementsIndex = `CREATE INDEX IF NOT EXISTS idx_measurements_order_id ON measurements (order_id)`

// ordersTableDDL is the current shape of the orders table; %s is the table name.
const ordersTableDDL = `CREATE TABLE %s (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	order_number TEXT UNIQUE NOT NULL,
	customer_id INTEGER,
	garment_types TEXT NOT NULL DEFAULT '[]',
	order_date TEXT DEFAULT CURRENT_DATE,
	delivery_date TEXT,
	status TEXT DEFAULT 'pending',
	design_image TEXT,
	notes TEXT,
	total_amount REAL,
	advance_amount REAL,
	balance_amount REAL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (customer_id) REFERENCES customers (id)
)`

// tableColumn is one row of PRAGMA table_info
type tableColumn struct {
	CID          int            `db:"cid"`
	Name         string         `db:"name"`
	Type         string         `db:"type"`
	NotNull      int            `db:"notnull"`
	DefaultValue sql.NullString `db:"dflt_value"`
	PK           int            `db:"pk"`
}

// tableColumns returns the column names of a table; an empty set means the
// table does not exist.
func tableColumns(ctx context.Context, q sqlx.QueryerContext, table string) (map[string]bool, error) {
	var cols []tableColumn
	// PRAGMA arguments cannot be bound; table names here are constants.
	if err := sqlx.SelectContext(ctx, q, &cols, "PRAGMA table_info("+table+")"); err != nil {
		return nil, errors.Wrapf(err, "inspect table %s", table)
	}
	set := make(map[string]bool, len(cols))
	for _, c := range cols {
		set[c.Name] = true
	}
	return set, nil
}

func tableExists(ctx context.Context, q sqlx.QueryerContext, table string) (bool, error) {
	var n int
	if err := sqlx.GetContext(ctx, q, &n,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table); err != nil {
		return false, errors.Wrapf(err, "look up table %s", table)
	}
	return n > 0, nil
}

// ensureBaseTables creates the tables that never changed shape and adds the
// created_at column older customer tables lack.
func ensureBaseTables(ctx context.Context, tx *sqlx.Tx) error {
	for _, stmt := range []string{createTailorsTable, createCustomersTable, createMeasurementsTable, createMeasurementsIndex} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "create base table")
		}
	}

	for _, table := range []string{"customers", "tailors"} {
		cols, err := tableColumns(ctx, tx, table)
		if err != nil {
			return err
		}
		if !cols["created_at"] {
			// ADD COLUMN only accepts constant defaults
			if _, err := tx.ExecContext(ctx, "ALTER TABLE "+table+" ADD COLUMN created_at DATETIME"); err != nil {
				return errors.Wrapf(err, "add created_at to %s", table)
			}
		}
	}
	return nil
}
