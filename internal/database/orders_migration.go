package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	ordersTable        = "orders"
	ordersStagingTable = "orders_new"
	legacyGarmentCol   = "garment_type"
)

// orderCopyColumns is the target column order used when copying rows
var orderCopyColumns = []string{
	"id", "order_number", "customer_id", "garment_types", "order_date",
	"delivery_date", "status", "design_image", "notes",
	"total_amount", "advance_amount", "balance_amount", "created_at",
}

// MigrationReport summarizes a migration run
type MigrationReport struct {
	OrdersMigrated      bool  `json:"orders_migrated"`
	RowsCopied          int64 `json:"rows_copied"`
	CustomerIDsRepaired int   `json:"customer_ids_repaired"`
	UnresolvedOrders    int   `json:"unresolved_orders"`
}

// needsOrdersMigration decides from the live column set whether the orders
// table has to be rebuilt.
func needsOrdersMigration(cols map[string]bool) bool {
	if len(cols) == 0 {
		return true
	}
	return !cols["created_at"] || cols[legacyGarmentCol]
}

// copyExpressions maps each target column to the expression that fills it
// from whatever historical shape the source table has.
func copyExpressions(src map[string]bool) []string {
	exprs := make([]string, 0, len(orderCopyColumns))
	for _, col := range orderCopyColumns {
		switch col {
		case "garment_types":
			exprs = append(exprs, garmentTypesExpression(src))
		case "order_number":
			if src[col] {
				exprs = append(exprs, "COALESCE(order_number, 'ORD' || id)")
			} else {
				exprs = append(exprs, "'ORD' || id")
			}
		case "order_date":
			if src[col] {
				exprs = append(exprs, "COALESCE(order_date, date('now'))")
			} else {
				exprs = append(exprs, "date('now')")
			}
		case "status":
			if src[col] {
				exprs = append(exprs, "COALESCE(status, 'pending')")
			} else {
				exprs = append(exprs, "'pending'")
			}
		case "created_at":
			// Original creation times are not carried over.
			exprs = append(exprs, "datetime('now')")
		default:
			if src[col] {
				exprs = append(exprs, col)
			} else {
				exprs = append(exprs, "NULL")
			}
		}
	}
	return exprs
}

func garmentTypesExpression(src map[string]bool) string {
	legacy := fmt.Sprintf("CASE WHEN %[1]s IS NULL OR %[1]s = '' THEN '[]' ELSE json_array(%[1]s) END", legacyGarmentCol)
	switch {
	case src["garment_types"] && src[legacyGarmentCol]:
		return fmt.Sprintf("CASE WHEN garment_types IS NULL OR garment_types = '' THEN %s ELSE garment_types END", legacy)
	case src[legacyGarmentCol]:
		return legacy
	case src["garment_types"]:
		return "COALESCE(garment_types, '[]')"
	default:
		return "'[]'"
	}
}

// migrateOrdersTable rebuilds orders into the current shape inside tx.
// It returns whether a rebuild happened and how many rows were copied.
func migrateOrdersTable(ctx context.Context, tx *sqlx.Tx, log *logrus.Logger) (bool, int64, error) {
	cols, err := tableColumns(ctx, tx, ordersTable)
	if err != nil {
		return false, 0, err
	}

	staleStaging, err := tableExists(ctx, tx, ordersStagingTable)
	if err != nil {
		return false, 0, err
	}

	if !needsOrdersMigration(cols) {
		if staleStaging {
			if _, err := tx.ExecContext(ctx, "DROP TABLE "+ordersStagingTable); err != nil {
				return false, 0, errors.Wrap(err, "drop stale staging table")
			}
		}
		return false, 0, nil
	}

	log.WithFields(logrus.Fields{
		"table_exists":     len(cols) > 0,
		"has_created_at":   cols["created_at"],
		"has_garment_type": cols[legacyGarmentCol],
	}).Info("Orders table needs migration")

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+ordersStagingTable); err != nil {
		return false, 0, errors.Wrap(err, "drop staging table")
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(ordersTableDDL, ordersStagingTable)); err != nil {
		return false, 0, errors.Wrap(err, "create staging table")
	}

	var copied int64
	if len(cols) > 0 {
		stmt := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s",
			ordersStagingTable,
			strings.Join(orderCopyColumns, ", "),
			strings.Join(copyExpressions(cols), ", "),
			ordersTable,
		)
		res, err := tx.ExecContext(ctx, stmt)
		if err != nil {
			return false, 0, errors.Wrap(err, "copy orders")
		}
		copied, _ = res.RowsAffected()

		if _, err := tx.ExecContext(ctx, "DROP TABLE "+ordersTable); err != nil {
			return false, 0, errors.Wrap(err, "drop old orders table")
		}
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s RENAME TO %s", ordersStagingTable, ordersTable)); err != nil {
		return false, 0, errors.Wrap(err, "rename staging table")
	}

	return true, copied, nil
}

type danglingOrder struct {
	ID          uint           `db:"id"`
	CustomerRef sql.NullString `db:"customer_ref"`
}

// ReconcileCustomerIDs rewrites order.customer_id values that do not match a
// customer primary key but do match a customer_number. Rows that match
// neither are left alone. Failures on single rows are logged and skipped.
func ReconcileCustomerIDs(ctx context.Context, db *sqlx.DB, log *logrus.Logger) (repaired, unresolved int, err error) {
	var dangling []danglingOrder
	err = db.SelectContext(ctx, &dangling, `
		SELECT o.id, CAST(o.customer_id AS TEXT) AS customer_ref
		FROM orders o
		LEFT JOIN customers c ON o.customer_id = c.id
		WHERE c.id IS NULL`)
	if err != nil {
		return 0, 0, errors.Wrap(err, "find orders with dangling customer_id")
	}

	for _, o := range dangling {
		entry := log.WithFields(logrus.Fields{"order_id": o.ID, "customer_ref": o.CustomerRef.String})

		if !o.CustomerRef.Valid {
			unresolved++
			entry.Warn("Order has no customer reference")
			continue
		}

		var customerID uint
		err := db.GetContext(ctx, &customerID, "SELECT id FROM customers WHERE customer_number = ?", o.CustomerRef.String)
		if errors.Is(err, sql.ErrNoRows) {
			unresolved++
			entry.Warn("No customer matches dangling customer_id")
			continue
		}
		if err != nil {
			unresolved++
			entry.WithError(err).Warn("Failed to look up customer by number")
			continue
		}

		if _, err := db.ExecContext(ctx, "UPDATE orders SET customer_id = ? WHERE id = ?", customerID, o.ID); err != nil {
			unresolved++
			entry.WithError(err).Warn("Failed to repair customer_id")
			continue
		}

		repaired++
		entry.WithField("customer_id", customerID).Info("Repaired order customer_id")
	}

	return repaired, unresolved, nil
}
