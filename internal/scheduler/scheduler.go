// Package scheduler periodically drops cached partitions so that files
// added to the data directory are picked up by long-running processes.
package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Refresher is anything holding state that can be rebuilt on demand
type Refresher interface {
	Refresh()
}

// Scheduler runs Refresh at a fixed interval
type Scheduler struct {
	scheduler *gocron.Scheduler
	target    Refresher
	interval  time.Duration
}

// New creates a new Scheduler
func New(target Refresher, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		target:    target,
		interval:  interval,
	}
}

// Start schedules the refresh job. The first refresh happens one interval
// from now. A non-positive interval schedules nothing.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		log.Println("scheduler: no refresh interval configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(minutes).Minutes().WaitForSchedule().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	log.Println("scheduler: refreshing dataset cache")
	s.target.Refresh()
}

// Jobs returns the number of scheduled jobs
func (s *Scheduler) Jobs() int {
	return s.scheduler.Len()
}

// Stop stops the scheduler and cancels any future jobs
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
