package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the server's housekeeping jobs (session GC, log retention).
type Scheduler struct {
	cron *cron.Cron
}

func New() *Scheduler {
	return &Scheduler{cron: cron.New(cron.WithLocation(time.UTC))}
}

// Every runs job at a fixed interval. Intervals under a second are rejected.
func (s *Scheduler) Every(name string, interval time.Duration, job func() error) (cron.EntryID, error) {
	if interval < time.Second {
		return 0, fmt.Errorf("interval for %s must be at least 1s", name)
	}
	return s.cron.AddFunc(fmt.Sprintf("@every %s", interval), wrap(name, job))
}

// Daily runs job once a day at midnight UTC.
func (s *Scheduler) Daily(name string, job func() error) (cron.EntryID, error) {
	return s.cron.AddFunc("@daily", wrap(name, job))
}

func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func wrap(name string, job func() error) func() {
	return func() {
		if err := job(); err != nil {
			slog.Error("scheduled job failed", "action", name, "error", err)
		}
	}
}
