package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/fuel-price-page/internal/pricepage"
)

// Refresher rebuilds and publishes the price page.
type Refresher interface {
	Refresh(ctx context.Context) (pricepage.Result, error)
}

// Scheduler periodically refreshes the published price page.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. timeout bounds each run.
func New(interval, timeout time.Duration, refresher Refresher) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		interval:  interval,
		timeout:   timeout,
	}
}

// Start schedules the refresh job and starts the underlying scheduler. The
// first run happens immediately; runs never overlap.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	_, err := s.scheduler.Every(interval).SingletonMode().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	log.Println("scheduler: running price page refresh")

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res, err := s.refresher.Refresh(ctx)
	if err != nil {
		log.Printf("scheduler: refresh failed: %v", err)
		return
	}
	log.Printf("scheduler: completed refresh %s (%d rows)", res.RunID, res.Rows)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
