package janitor

import (
	"context"
	"time"

	"github.com/creativehub205/ladies-tailor-shop/config"

	"github.com/go-co-op/gocron/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Sweeper removes design image files no order references
type Sweeper interface {
	SweepOrphanedImages(ctx context.Context, minAge time.Duration) (int, error)
}

// Janitor periodically sweeps orphaned uploads
type Janitor struct {
	sweeper  Sweeper
	interval time.Duration
	minAge   time.Duration
	log      *logrus.Logger
}

// New creates a janitor from its configuration
func New(sweeper Sweeper, cfg config.JanitorConfig, log *logrus.Logger) (*Janitor, error) {
	if sweeper == nil {
		return nil, errors.New("sweeper is required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.Errorf("invalid janitor interval %s", cfg.Interval)
	}
	if cfg.MinAge <= 0 {
		return nil, errors.Errorf("invalid janitor min age %s", cfg.MinAge)
	}
	return &Janitor{
		sweeper:  sweeper,
		interval: cfg.Interval,
		minAge:   cfg.MinAge,
		log:      log,
	}, nil
}

// Run schedules the sweep and blocks until ctx is cancelled. The first
// sweep runs immediately.
func (j *Janitor) Run(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return errors.Wrap(err, "failed to create scheduler")
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(j.interval),
		gocron.NewTask(func() {
			if _, err := j.RunOnce(ctx); err != nil {
				j.log.WithError(err).Error("Orphaned image sweep failed")
			}
		}),
		gocron.WithName("sweep-orphaned-images"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return errors.Wrap(err, "failed to schedule sweep")
	}

	j.log.WithFields(logrus.Fields{
		"interval": j.interval,
		"min_age":  j.minAge,
	}).Info("Upload janitor started")
	scheduler.Start()

	<-ctx.Done()

	j.log.Info("Upload janitor stopping")
	return scheduler.Shutdown()
}

// RunOnce performs a single sweep
func (j *Janitor) RunOnce(ctx context.Context) (int, error) {
	return j.sweeper.SweepOrphanedImages(ctx, j.minAge)
}
