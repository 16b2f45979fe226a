package service

import (
	"context"
	"io"
	"time"

	"github.com/creativehub205/ladies-tailor-shop/internal/models"
	"github.com/creativehub205/ladies-tailor-shop/internal/repository"
	"github.com/creativehub205/ladies-tailor-shop/internal/session"
	"github.com/creativehub205/ladies-tailor-shop/internal/storage"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Service defines the business logic operations
type Service interface {
	// Authentication
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, claims *session.Claims) error
	Authenticate(ctx context.Context, token string) (*session.Claims, error)

	// Tailor accounts
	EnsureDefaultTailor(ctx context.Context) (bool, error)
	CreateTailor(ctx context.Context, in TailorInput) (*models.Tailor, error)
	ListTailors(ctx context.Context) ([]*models.Tailor, error)
	ChangePassword(ctx context.Context, username, password string) error

	// Customer operations
	CreateCustomer(ctx context.Context, in CustomerInput) (*models.Customer, error)
	GetCustomer(ctx context.Context, id uint) (*models.Customer, error)
	ListCustomers(ctx context.Context, search string) ([]*models.Customer, error)
	UpdateCustomer(ctx context.Context, id uint, in CustomerInput) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id uint) error
	ListCustomerOrders(ctx context.Context, id uint) ([]*models.OrderDetail, error)

	// Order operations
	CreateOrder(ctx context.Context, in *OrderInput, image *ImageUpload) (*models.OrderDetail, error)
	GetOrder(ctx context.Context, id uint) (*models.OrderDetail, error)
	ListOrders(ctx context.Context, search string) ([]*models.OrderDetail, error)
	UpdateOrder(ctx context.Context, id uint, patch models.OrderPatch, image *ImageUpload) (*models.OrderDetail, error)
	DeleteOrder(ctx context.Context, id uint) error
	ReplaceMeasurements(ctx context.Context, orderID uint, measurements []models.Measurement) ([]models.Measurement, error)

	// Maintenance
	ClearOrders(ctx context.Context) (*ClearReport, error)
	ClearCustomers(ctx context.Context, includeOrders bool) (*ClearReport, error)
	SweepOrphanedImages(ctx context.Context, minAge time.Duration) (int, error)
	Ping(ctx context.Context) error
}

// ImageStore persists design images
type ImageStore interface {
	Save(originalName string, r io.Reader) (string, error)
	Remove(name string) error
	List() ([]storage.FileInfo, error)
}

// DefaultTailor is the operator account seeded on first start
type DefaultTailor struct {
	Username string
	Password string
	ShopName string
}

// ServiceConfig holds the configuration for the service
type ServiceConfig struct {
	Repository    repository.Repository
	Images        ImageStore
	Sessions      *session.Manager
	Logger        *logrus.Logger
	BcryptCost    int
	DefaultTailor DefaultTailor
	Now           func() time.Time
}

// service is an implementation of the Service interface
type service struct {
	repo          repository.Repository
	images        ImageStore
	sessions      *session.Manager
	log           *logrus.Logger
	bcryptCost    int
	defaultTailor DefaultTailor
	now           func() time.Time
}

// NewService creates a new service instance
func NewService(config ServiceConfig) (Service, error) {
	if config.Repository == nil {
		return nil, errors.New("repository is required")
	}
	if config.Images == nil {
		return nil, errors.New("image store is required")
	}
	if config.Sessions == nil {
		return nil, errors.New("session manager is required")
	}
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &service{
		repo:          config.Repository,
		images:        config.Images,
		sessions:      config.Sessions,
		log:           config.Logger,
		bcryptCost:    config.BcryptCost,
		defaultTailor: config.DefaultTailor,
		now:           config.Now,
	}, nil
}

// Ping checks that storage is reachable
func (s *service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
