package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/creativehub205/ladies-tailor-shop/internal/database"
	"github.com/creativehub205/ladies-tailor-shop/internal/models"

	"gorm.io/gorm"
)

// Repository provides data access methods
type Repository interface {
	// Transaction support
	WithTransaction(ctx context.Context, fn func(ctx context.Context, txRepo Repository) error) error
	Ping(ctx context.Context) error

	// Tailor operations
	CreateTailor(ctx context.Context, tailor *models.Tailor) error
	CreateTailorIfAbsent(ctx context.Context, tailor *models.Tailor) (bool, error)
	FindTailorByUsername(ctx context.Context, username string) (*models.Tailor, error)
	FindTailorByID(ctx context.Context, id uint) (*models.Tailor, error)
	ListTailors(ctx context.Context) ([]*models.Tailor, error)
	UpdateTailorPassword(ctx context.Context, id uint, passwordHash string) error

	// Customer operations
	NextCustomerNumber(ctx context.Context) (string, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	FindCustomerByID(ctx context.Context, id uint) (*models.Customer, error)
	ListCustomers(ctx context.Context, search string) ([]*models.Customer, error)
	UpdateCustomer(ctx context.Context, id uint, update models.CustomerUpdate) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id uint) error
	CountOrdersByCustomer(ctx context.Context, customerID uint) (int64, error)
	DeleteAllCustomers(ctx context.Context) (int64, error)

	// Order operations
	CreateOrder(ctx context.Context, order *models.Order) error
	FindOrderByID(ctx context.Context, id uint) (*models.Order, error)
	FindOrderDetail(ctx context.Context, id uint) (*models.OrderDetail, error)
	ListOrderDetails(ctx context.Context, filter OrderFilter) ([]*models.OrderDetail, error)
	UpdateOrderColumns(ctx context.Context, id uint, columns map[string]interface{}) error
	DeleteOrder(ctx context.Context, id uint) error
	CountOrders(ctx context.Context) (int64, error)
	ListDesignImages(ctx context.Context) ([]string, error)
	DeleteAllOrders(ctx context.Context) (int64, error)

	// Measurement operations
	ListMeasurements(ctx context.Context, orderID uint) ([]models.Measurement, error)
	ReplaceMeasurements(ctx context.Context, orderID uint, measurements []models.Measurement) error
	DeleteMeasurementsByOrder(ctx context.Context, orderID uint) error
	DeleteAllMeasurements(ctx context.Context) (int64, error)
}

// OrderFilter narrows an order listing
type OrderFilter struct {
	Search     string
	CustomerID uint
}

// repo is an implementation of the Repository interface
type repo struct {
	db   database.DB
	sort *sortColumn
}

// Helper type for transaction support
type dbWrapper struct {
	db *gorm.DB
}

func (w *dbWrapper) DB() (*gorm.DB, error) {
	return w.db, nil
}

func (w *dbWrapper) Close() error {
	return nil
}

// sortColumn remembers which column order listings sort by. Older schemas
// have no created_at, so the choice is made once against the live table.
type sortColumn struct {
	once   sync.Once
	column string
}

func (s *sortColumn) resolve(db *gorm.DB) string {
	s.once.Do(func() {
		s.column = "order_date"
		if db.Migrator().HasColumn(&models.Order{}, "created_at") {
			s.column = "created_at"
		}
	})
	return s.column
}

// NewRepository creates a new repository instance
func NewRepository(db database.DB) Repository {
	return &repo{
		db:   db,
		sort: &sortColumn{},
	}
}

// WithTransaction executes the given function within a database transaction.
// All work inside fn must go through txRepo: the pool holds a single
// connection, so using the outer repository would block on it.
func (r *repo) WithTransaction(ctx context.Context, fn func(ctx context.Context, txRepo Repository) error) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return gormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &repo{
			db:   &dbWrapper{db: tx},
			sort: r.sort,
		}
		return fn(ctx, txRepo)
	})
}

// Ping checks that the database answers
func (r *repo) Ping(ctx context.Context) error {
	return database.Ping(ctx, r.db)
}

func (r *repo) conn(ctx context.Context) (*gorm.DB, error) {
	gormDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}
	return gormDB.WithContext(ctx), nil
}

// likePattern builds a substring pattern for LIKE ... ESCAPE '\'
func likePattern(search string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(search)
	return "%" + escaped + "%"
}
