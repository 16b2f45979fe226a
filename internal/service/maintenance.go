package service

import (
	"context"
	"time"

	"github.com/creativehub205/ladies-tailor-shop/internal/metrics"
	"github.com/creativehub205/ladies-tailor-shop/internal/repository"
	"github.com/creativehub205/ladies-tailor-shop/internal/storage"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// ClearReport counts what a clear operation removed
type ClearReport struct {
	Orders        int64 `json:"orders"`
	Measurements  int64 `json:"measurements"`
	Customers     int64 `json:"customers"`
	ImagesRemoved int   `json:"images_removed"`
}

// ClearOrders deletes every order with its measurements, then the images
// those orders referenced.
func (s *service) ClearOrders(ctx context.Context) (*ClearReport, error) {
	report := &ClearReport{}
	var images []string

	err := s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.Repository) error {
		return s.clearOrders(ctx, txRepo, report, &images)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to clear orders")
	}

	report.ImagesRemoved = s.removeImages(images)
	s.log.WithFields(logrus.Fields{
		"orders":       report.Orders,
		"measurements": report.Measurements,
	}).Info("Orders cleared")
	return report, nil
}

// ClearCustomers deletes every customer. Without includeOrders it refuses
// while any order exists.
func (s *service) ClearCustomers(ctx context.Context, includeOrders bool) (*ClearReport, error) {
	report := &ClearReport{}
	var images []string

	err := s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.Repository) error {
		if includeOrders {
			if err := s.clearOrders(ctx, txRepo, report, &images); err != nil {
				return err
			}
		} else {
			count, err := txRepo.CountOrders(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				return ErrCustomerHasOrders
			}
		}

		n, err := txRepo.DeleteAllCustomers(ctx)
		report.Customers = n
		return err
	})
	if errors.Is(err, ErrCustomerHasOrders) {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to clear customers")
	}

	report.ImagesRemoved = s.removeImages(images)
	s.log.WithFields(logrus.Fields{
		"customers": report.Customers,
		"orders":    report.Orders,
	}).Info("Customers cleared")
	return report, nil
}

func (s *service) clearOrders(ctx context.Context, txRepo repository.Repository, report *ClearReport, images *[]string) error {
	var err error
	if *images, err = txRepo.ListDesignImages(ctx); err != nil {
		return err
	}
	if report.Measurements, err = txRepo.DeleteAllMeasurements(ctx); err != nil {
		return err
	}
	report.Orders, err = txRepo.DeleteAllOrders(ctx)
	return err
}

func (s *service) removeImages(images []string) int {
	removed := 0
	for _, name := range lo.Uniq(images) {
		if err := s.images.Remove(name); err != nil {
			s.log.WithError(err).WithField("design_image", name).Warn("Failed to remove design image")
			continue
		}
		removed++
	}
	metrics.RecordImagesRemoved("cleared", removed)
	return removed
}

// SweepOrphanedImages deletes uploaded files no order references, skipping
// files younger than minAge so uploads of in-flight requests survive.
func (s *service) SweepOrphanedImages(ctx context.Context, minAge time.Duration) (int, error) {
	referenced, err := s.repo.ListDesignImages(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list referenced images")
	}
	files, err := s.images.List()
	if err != nil {
		return 0, err
	}

	keep := lo.SliceToMap(referenced, func(name string) (string, struct{}) {
		return name, struct{}{}
	})
	cutoff := s.now().Add(-minAge)

	orphans := lo.Filter(files, func(f storage.FileInfo, _ int) bool {
		_, used := keep[f.Name]
		return !used && f.ModTime.Before(cutoff)
	})

	removed := 0
	for _, f := range orphans {
		if err := s.images.Remove(f.Name); err != nil {
			s.log.WithError(err).WithField("file", f.Name).Warn("Failed to remove orphaned image")
			continue
		}
		removed++
	}

	metrics.RecordImagesRemoved("orphaned", removed)
	if removed > 0 {
		s.log.WithField("removed", removed).Info("Orphaned design images removed")
	}
	return removed, nil
}
