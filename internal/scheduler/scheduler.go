package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/avonside/weather-bulletin/internal/bulletin"
)

// Scheduler periodically regenerates the bulletin so the served text and
// audio track the freshest forecast and the current time-of-day window.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *bulletin.Service
	interval  time.Duration
}

// New creates a new Scheduler.
func New(interval time.Duration, service *bulletin.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 30
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running bulletin generation job")

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		if _, err := s.service.Generate(ctx); err != nil {
			log.Printf("scheduler: bulletin generation failed: %v", err)
			return
		}
		log.Println("scheduler: completed bulletin generation job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
