package reservations

import (
	"context"
	"fmt"
	"time"

	"circustix/pkg/logger"

	"github.com/go-co-op/gocron/v2"
)

// Sweeper purges expired holds on a schedule. Reads already purge lazily;
// the sweep keeps contexts nobody is looking at from piling up.
type Sweeper struct {
	scheduler gocron.Scheduler
	service   Service
	log       *logger.Logger
}

func NewSweeper(service Service, interval time.Duration, log *logger.Logger) (*Sweeper, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive, got %s", interval)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	s := &Sweeper{scheduler: scheduler, service: service, log: log}
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.Sweep),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule hold sweep: %w", err)
	}
	return s, nil
}

// Sweep runs one purge pass
func (s *Sweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	purged, err := s.service.PurgeExpiredHolds(ctx)
	if err != nil {
		s.log.WithError(err).WarnContext(ctx, "Hold sweep failed")
		return
	}
	if purged > 0 {
		s.log.InfoWithContext(ctx, "Expired holds purged", map[string]interface{}{"count": purged})
	}
}

func (s *Sweeper) Start() {
	s.scheduler.Start()
}

func (s *Sweeper) Stop() error {
	return s.scheduler.Shutdown()
}
