package repository

import (
	"context"

	"github.com/creativehub205/ladies-tailor-shop/internal/models"

	"gorm.io/gorm"
)

const orderDetailColumns = "o.*, c.name AS customer_name, c.contact_number, c.customer_number, c.address"

func (r *repo) CreateOrder(ctx context.Context, order *models.Order) error {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return err
	}

	return translateError(gormDB.Create(order).Error)
}

func (r *repo) FindOrderByID(ctx context.Context, id uint) (*models.Order, error) {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	var order models.Order
	if err := gormDB.First(&order, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

func (r *repo) detailQuery(gormDB *gorm.DB) *gorm.DB {
	return gormDB.Table("orders AS o").
		Select(orderDetailColumns).
		Joins("JOIN customers c ON o.customer_id = c.id")
}

// FindOrderDetail loads an order joined with its customer. An order whose
// customer reference dangles is reported as not found.
func (r *repo) FindOrderDetail(ctx context.Context, id uint) (*models.OrderDetail, error) {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	var detail models.OrderDetail
	result := r.detailQuery(gormDB).Where("o.id = ?", id).Limit(1).Scan(&detail)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &detail, nil
}

// ListOrderDetails returns joined orders, newest first
func (r *repo) ListOrderDetails(ctx context.Context, filter OrderFilter) ([]*models.OrderDetail, error) {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	query := r.detailQuery(gormDB)
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			`o.order_number LIKE ? ESCAPE '\' OR c.name LIKE ? ESCAPE '\' OR c.contact_number LIKE ? ESCAPE '\' OR c.customer_number LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern, pattern,
		)
	}
	if filter.CustomerID > 0 {
		query = query.Where("o.customer_id = ?", filter.CustomerID)
	}

	orders := make([]*models.OrderDetail, 0)
	if err := query.Order("o." + r.sort.resolve(gormDB) + " DESC").Order("o.id DESC").Scan(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderColumns writes the given columns. Missing orders yield ErrNotFound.
func (r *repo) UpdateOrderColumns(ctx context.Context, id uint, columns map[string]interface{}) error {
	if len(columns) == 0 {
		return nil
	}

	gormDB, err := r.conn(ctx)
	if err != nil {
		return err
	}

	result := gormDB.Model(&models.Order{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) DeleteOrder(ctx context.Context, id uint) error {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return err
	}

	result := gormDB.Delete(&models.Order{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) CountOrders(ctx context.Context) (int64, error) {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	err = gormDB.Model(&models.Order{}).Count(&count).Error
	return count, err
}

// ListDesignImages returns every design image filename still referenced by an order
func (r *repo) ListDesignImages(ctx context.Context) ([]string, error) {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	var images []string
	err = gormDB.Model(&models.Order{}).
		Where("design_image IS NOT NULL AND design_image <> ''").
		Pluck("design_image", &images).Error
	return images, err
}

func (r *repo) DeleteAllOrders(ctx context.Context) (int64, error) {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}

	result := gormDB.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Order{})
	return result.RowsAffected, result.Error
}
