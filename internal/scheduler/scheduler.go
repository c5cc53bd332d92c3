package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/weather"
)

// Scheduler periodically re-runs the full resolve-then-fetch pipeline.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	interval  time.Duration
	timeout   time.Duration
}

// New creates a Scheduler. The interval is clamped to [5m, 60m], matching
// the configurable range of the refresh setting.
func New(interval, timeout time.Duration, service *weather.Service) *Scheduler {
	if interval < 5*time.Minute {
		interval = 5 * time.Minute
	}
	if interval > 60*time.Minute {
		interval = 60 * time.Minute
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		interval:  interval,
		timeout:   timeout,
	}
}

// Start schedules the periodic refresh and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running weather refresh")

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if _, err := s.service.Refresh(ctx); err != nil {
			if errors.Is(err, weather.ErrRefreshInFlight) {
				log.Println("scheduler: refresh already in flight, skipping")
				return
			}
			log.Printf("scheduler: refresh failed: %v", err)
			return
		}
		log.Println("scheduler: weather refresh completed")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs. Must run on
// teardown so the timer never fires against torn-down state.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
