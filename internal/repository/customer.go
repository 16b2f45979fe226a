package repository

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/creativehub205/ladies-tailor-shop/internal/models"

	"gorm.io/gorm"
)

// NextCustomerNumber returns one past the highest numeric customer number.
// Non-numeric legacy values cast to 0, and an empty table yields "1".
func (r *repo) NextCustomerNumber(ctx context.Context) (string, error) {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return "", err
	}

	var highest sql.NullInt64
	err = gormDB.Model(&models.Customer{}).
		Select("MAX(CAST(customer_number AS INTEGER))").
		Scan(&highest).Error
	if err != nil {
		return "", err
	}

	next := int64(1)
	if highest.Valid {
		next = highest.Int64 + 1
	}
	return strconv.FormatInt(next, 10), nil
}

func (r *repo) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return err
	}

	return translateError(gormDB.Create(customer).Error)
}

func (r *repo) FindCustomerByID(ctx context.Context, id uint) (*models.Customer, error) {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	var customer models.Customer
	if err := gormDB.First(&customer, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &customer, nil
}

// ListCustomers returns customers in insertion order, optionally filtered by
// a substring of customer number, name or contact number.
func (r *repo) ListCustomers(ctx context.Context, search string) ([]*models.Customer, error) {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	query := gormDB.Model(&models.Customer{})
	if search != "" {
		pattern := likePattern(search)
		query = query.Where(
			`customer_number LIKE ? ESCAPE '\' OR name LIKE ? ESCAPE '\' OR contact_number LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}

	customers := make([]*models.Customer, 0)
	if err := query.Order("id").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// UpdateCustomer overwrites the mutable fields and returns the stored row
func (r *repo) UpdateCustomer(ctx context.Context, id uint, update models.CustomerUpdate) (*models.Customer, error) {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	result := gormDB.Model(&models.Customer{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":           update.Name,
		"contact_number": update.ContactNumber,
		"address":        update.Address,
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return r.FindCustomerByID(ctx, id)
}

func (r *repo) DeleteCustomer(ctx context.Context, id uint) error {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return err
	}

	result := gormDB.Delete(&models.Customer{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) CountOrdersByCustomer(ctx context.Context, customerID uint) (int64, error) {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	err = gormDB.Model(&models.Order{}).Where("customer_id = ?", customerID).Count(&count).Error
	return count, err
}

func (r *repo) DeleteAllCustomers(ctx context.Context) (int64, error) {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}

	result := gormDB.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Customer{})
	return result.RowsAffected, result.Error
}
