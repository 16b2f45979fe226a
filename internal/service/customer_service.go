package service

import (
	"context"
	"strings"

	"github.com/creativehub205/ladies-tailor-shop/internal/metrics"
	"github.com/creativehub205/ladies-tailor-shop/internal/models"
	"github.com/creativehub205/ladies-tailor-shop/internal/repository"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// maxNumberAttempts bounds retries when a generated number is already taken
const maxNumberAttempts = 5

func normalizeCustomer(in CustomerInput) (CustomerInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return in, err
	}
	return in, nil
}

// CreateCustomer allocates the next customer number and inserts the customer
// in one transaction. A number taken concurrently is retried with a fresh one.
func (s *service) CreateCustomer(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	in, err := normalizeCustomer(in)
	if err != nil {
		return nil, err
	}

	var customer *models.Customer
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		err = s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.Repository) error {
			number, err := txRepo.NextCustomerNumber(ctx)
			if err != nil {
				return err
			}
			customer = &models.Customer{
				CustomerNumber: number,
				Name:           in.Name,
				ContactNumber:  in.ContactNumber,
				Address:        in.Address,
			}
			return txRepo.CreateCustomer(ctx, customer)
		})
		if !errors.Is(err, repository.ErrDuplicateKey) {
			break
		}
		metrics.RecordEvent(metrics.EventNumberCollision)
		s.log.WithField("attempt", attempt).Warn("Customer number already taken, retrying")
	}

	if errors.Is(err, repository.ErrDuplicateKey) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create customer")
	}

	metrics.RecordEvent(metrics.EventCustomerCreated)
	s.log.WithFields(logrus.Fields{
		"customer_id":     customer.ID,
		"customer_number": customer.CustomerNumber,
	}).Info("Customer created")
	return customer, nil
}

// GetCustomer returns one customer
func (s *service) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	customer, err := s.repo.FindCustomerByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCustomerNotFound
	}
	return customer, err
}

// ListCustomers returns customers matching search
func (s *service) ListCustomers(ctx context.Context, search string) ([]*models.Customer, error) {
	return s.repo.ListCustomers(ctx, strings.TrimSpace(search))
}

// UpdateCustomer replaces the editable fields. The customer number never changes.
func (s *service) UpdateCustomer(ctx context.Context, id uint, in CustomerInput) (*models.Customer, error) {
	in, err := normalizeCustomer(in)
	if err != nil {
		return nil, err
	}

	customer, err := s.repo.UpdateCustomer(ctx, id, models.CustomerUpdate{
		Name:          in.Name,
		ContactNumber: in.ContactNumber,
		Address:       in.Address,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to update customer")
	}
	return customer, nil
}

// DeleteCustomer removes a customer that owns no orders. The count and the
// delete share a transaction so an order cannot slip in between.
func (s *service) DeleteCustomer(ctx context.Context, id uint) error {
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.Repository) error {
		count, err := txRepo.CountOrdersByCustomer(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrCustomerHasOrders
		}
		return txRepo.DeleteCustomer(ctx, id)
	})

	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		return ErrCustomerNotFound
	case errors.Is(err, ErrCustomerHasOrders):
		return err
	default:
		return errors.Wrap(err, "failed to delete customer")
	}

	metrics.RecordEvent(metrics.EventCustomerDeleted)
	s.log.WithField("customer_id", id).Info("Customer deleted")
	return nil
}

// ListCustomerOrders returns the orders of one customer, newest first
func (s *service) ListCustomerOrders(ctx context.Context, id uint) ([]*models.OrderDetail, error) {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListOrderDetails(ctx, repository.OrderFilter{CustomerID: id})
}
