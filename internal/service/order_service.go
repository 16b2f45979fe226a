package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/creativehub205/ladies-tailor-shop/internal/metrics"
	"github.com/creativehub205/ladies-tailor-shop/internal/models"
	"github.com/creativehub205/ladies-tailor-shop/internal/repository"

	"github.com/pkg/errors"
	"github.com/samber/mo"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const orderNumberPrefix = "ORD"

// CreateOrder stores the order and its measurements in one transaction.
// The design image is written first and removed again if the transaction fails.
func (s *service) CreateOrder(ctx context.Context, in *OrderInput, image *ImageUpload) (*models.OrderDetail, error) {
	if in == nil {
		return nil, invalid("", "order is required")
	}
	balance := models.Balance(in.TotalAmount, in.AdvanceAmount)
	if err := checkAmounts(in.TotalAmount, in.AdvanceAmount, balance); err != nil {
		return nil, err
	}

	imageName, err := s.saveImage(image)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &models.Order{
		CustomerID:    in.CustomerID,
		GarmentTypes:  in.GarmentTypes,
		OrderDate:     models.NewDate(now.Format(dateLayout)),
		DeliveryDate:  in.DeliveryDate,
		Status:        models.OrderStatusPending,
		Notes:         in.Notes,
		TotalAmount:   models.Amount(in.TotalAmount),
		AdvanceAmount: models.Amount(in.AdvanceAmount),
		BalanceAmount: models.Amount(balance),
		CreatedAt:     now,
	}
	if imageName != "" {
		order.DesignImage = &imageName
	}

	measurements := append(make([]models.Measurement, 0, len(in.Measurements)), in.Measurements...)

	var detail *models.OrderDetail
	err = s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.Repository) error {
		if err := s.requireCustomer(ctx, txRepo, in.CustomerID); err != nil {
			return err
		}
		if err := s.insertWithOrderNumber(ctx, txRepo, order, now.UnixMilli()); err != nil {
			return err
		}
		if err := txRepo.ReplaceMeasurements(ctx, order.ID, measurements); err != nil {
			return err
		}
		var err error
		detail, err = txRepo.FindOrderDetail(ctx, order.ID)
		return err
	})
	if err != nil {
		s.discardImage(imageName)
		if IsValidationError(err) {
			return nil, err
		}
		return nil, errors.Wrap(err, "failed to create order")
	}

	metrics.RecordEvent(metrics.EventOrderCreated)
	s.log.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"customer_id":  order.CustomerID,
	}).Info("Order created")

	detail.Measurements = measurements
	return detail, nil
}

// insertWithOrderNumber assigns "ORD<millis>" and moves to the next
// millisecond when that number is taken.
func (s *service) insertWithOrderNumber(ctx context.Context, txRepo repository.Repository, order *models.Order, millis int64) error {
	var err error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		order.ID = 0
		order.OrderNumber = orderNumberPrefix + strconv.FormatInt(millis+int64(attempt), 10)
		err = txRepo.CreateOrder(ctx, order)
		if !errors.Is(err, repository.ErrDuplicateKey) {
			return err
		}
		metrics.RecordEvent(metrics.EventNumberCollision)
	}
	return err
}

func (s *service) requireCustomer(ctx context.Context, txRepo repository.Repository, id uint) error {
	_, err := txRepo.FindCustomerByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return invalid("customer_id", "Customer not found")
	}
	return err
}

// GetOrder returns the order joined with its customer and measurements
func (s *service) GetOrder(ctx context.Context, id uint) (*models.OrderDetail, error) {
	detail, err := s.repo.FindOrderDetail(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load order")
	}

	if detail.Measurements, err = s.repo.ListMeasurements(ctx, id); err != nil {
		return nil, errors.Wrap(err, "failed to load measurements")
	}
	return detail, nil
}

// ListOrders returns orders matching search, newest first
func (s *service) ListOrders(ctx context.Context, search string) ([]*models.OrderDetail, error) {
	return s.repo.ListOrderDetails(ctx, repository.OrderFilter{Search: strings.TrimSpace(search)})
}

// UpdateOrder applies a partial update. When only one amount is supplied the
// other is read from the stored row in the same transaction. The full order
// is returned only for patches carrying customer, garments and both amounts.
func (s *service) UpdateOrder(ctx context.Context, id uint, patch models.OrderPatch, image *ImageUpload) (*models.OrderDetail, error) {
	imageName, err := s.saveImage(image)
	if err != nil {
		return nil, err
	}
	if imageName != "" {
		patch.DesignImage = mo.Some(imageName)
	}

	var detail *models.OrderDetail
	err = s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.Repository) error {
		current, err := txRepo.FindOrderByID(ctx, id)
		if err != nil {
			return err
		}

		if customerID, ok := patch.CustomerID.Get(); ok {
			if err := s.requireCustomer(ctx, txRepo, customerID); err != nil {
				return err
			}
		}

		columns := patch.Columns()
		if patch.TouchesAmounts() {
			balance := patch.ResolveBalance(current)
			if err := checkAmounts(
				patch.TotalAmount.OrElse(decimal.Zero),
				patch.AdvanceAmount.OrElse(decimal.Zero),
				balance,
			); err != nil {
				return err
			}
			columns["balance_amount"] = models.Amount(balance)
		}
		if err := txRepo.UpdateOrderColumns(ctx, id, columns); err != nil {
			return err
		}

		if measurements, ok := patch.Measurements.Get(); ok {
			if err := txRepo.ReplaceMeasurements(ctx, id, measurements); err != nil {
				return err
			}
		}

		if !patch.IsComplete() {
			return nil
		}
		if detail, err = txRepo.FindOrderDetail(ctx, id); err != nil {
			return err
		}
		detail.Measurements, err = txRepo.ListMeasurements(ctx, id)
		return err
	})
	if err != nil {
		s.discardImage(imageName)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrOrderNotFound
		case IsValidationError(err):
			return nil, err
		default:
			return nil, errors.Wrap(err, "failed to update order")
		}
	}

	if !patch.IsEmpty() {
		metrics.RecordEvent(metrics.EventOrderUpdated)
		s.log.WithField("order_id", id).Info("Order updated")
	}
	return detail, nil
}

// DeleteOrder removes the order and its measurements. The design image is
// deleted after the transaction commits.
func (s *service) DeleteOrder(ctx context.Context, id uint) error {
	var image string
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.Repository) error {
		order, err := txRepo.FindOrderByID(ctx, id)
		if err != nil {
			return err
		}
		if order.DesignImage != nil {
			image = *order.DesignImage
		}
		if err := txRepo.DeleteMeasurementsByOrder(ctx, id); err != nil {
			return err
		}
		return txRepo.DeleteOrder(ctx, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return errors.Wrap(err, "failed to delete order")
	}

	s.discardImage(image)
	metrics.RecordEvent(metrics.EventOrderDeleted)
	s.log.WithField("order_id", id).Info("Order deleted")
	return nil
}

// ReplaceMeasurements swaps the full measurement set of an order
func (s *service) ReplaceMeasurements(ctx context.Context, orderID uint, measurements []models.Measurement) ([]models.Measurement, error) {
	saved := append([]models.Measurement{}, measurements...)
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.Repository) error {
		if _, err := txRepo.FindOrderByID(ctx, orderID); err != nil {
			return err
		}
		return txRepo.ReplaceMeasurements(ctx, orderID, saved)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to save measurements")
	}
	return saved, nil
}

func (s *service) saveImage(image *ImageUpload) (string, error) {
	if image == nil || image.Reader == nil {
		return "", nil
	}
	name, err := s.images.Save(image.Name, image.Reader)
	if err != nil {
		return "", errors.Wrap(err, "failed to store design image")
	}
	return name, nil
}

// discardImage removes a stored image; failures are only logged
func (s *service) discardImage(name string) {
	if name == "" {
		return
	}
	if err := s.images.Remove(name); err != nil {
		s.log.WithError(err).WithField("design_image", name).Warn("Failed to remove design image")
	}
}
