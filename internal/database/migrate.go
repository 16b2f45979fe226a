package database

import (
	"context"

	"github.com/creativehub205/ladies-tailor-shop/internal/metrics"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// AutoMigrate brings the schema to its current shape. Table creation and the
// orders rebuild run in one transaction, so a failure leaves the previous
// schema intact and is returned to the caller. The customer_id repair runs
// afterwards and never fails the migration.
func AutoMigrate(ctx context.Context, db DB, log *logrus.Logger) (*MigrationReport, error) {
	xdb, err := SQLX(db)
	if err != nil {
		return nil, err
	}

	report := &MigrationReport{}

	tx, err := xdb.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin migration transaction")
	}
	defer tx.Rollback()

	if err := ensureBaseTables(ctx, tx); err != nil {
		return nil, err
	}

	migrated, copied, err := migrateOrdersTable(ctx, tx, log)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit migration")
	}

	report.OrdersMigrated = migrated
	report.RowsCopied = copied
	if migrated {
		log.WithField("rows_copied", copied).Info("Orders table migrated")
	}

	repaired, unresolved, err := ReconcileCustomerIDs(ctx, xdb, log)
	if err != nil {
		log.WithError(err).Warn("Customer reference repair skipped")
	}
	report.CustomerIDsRepaired = repaired
	report.UnresolvedOrders = unresolved
	metrics.RecordEvents(metrics.EventCustomerRepaired, repaired)

	return report, nil
}
