package repository

import (
	"context"

	"github.com/creativehub205/ladies-tailor-shop/internal/models"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

func (r *repo) ListMeasurements(ctx context.Context, orderID uint) ([]models.Measurement, error) {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	measurements := make([]models.Measurement, 0)
	if err := gormDB.Where("order_id = ?", orderID).Order("id").Find(&measurements).Error; err != nil {
		return nil, err
	}
	return measurements, nil
}

// ReplaceMeasurements deletes the order's measurements and inserts the given
// set. Callers run it inside WithTransaction so the swap is atomic.
func (r *repo) ReplaceMeasurements(ctx context.Context, orderID uint, measurements []models.Measurement) error {
	if err := r.DeleteMeasurementsByOrder(ctx, orderID); err != nil {
		return err
	}
	if len(measurements) == 0 {
		return nil
	}

	gormDB, err := r.conn(ctx)
	if err != nil {
		return err
	}

	rows := lo.Map(measurements, func(m models.Measurement, _ int) *models.Measurement {
		m.ID = 0
		m.OrderID = orderID
		if m.Unit == "" {
			m.Unit = models.DefaultUnit
		}
		return &m
	})
	if err := gormDB.Create(rows).Error; err != nil {
		return err
	}

	for i, row := range rows {
		measurements[i] = *row
	}
	return nil
}

func (r *repo) DeleteMeasurementsByOrder(ctx context.Context, orderID uint) error {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return err
	}

	return gormDB.Where("order_id = ?", orderID).Delete(&models.Measurement{}).Error
}

func (r *repo) DeleteAllMeasurements(ctx context.Context) (int64, error) {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}

	result := gormDB.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Measurement{})
	return result.RowsAffected, result.Error
}
