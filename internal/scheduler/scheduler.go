// Package scheduler provides cron-based scheduling for Habit Pulse.
//
// Its single production job is the daily habit reminder, fired at a fixed
// UTC hour.
package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Scheduler provides cron-based job scheduling. All schedules run in UTC.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler creates and starts a cron scheduler.
func NewScheduler() *Scheduler {
	// Standard 5-field cron parser (min, hour, dom, month, dow) with panic
	// recovery around jobs.
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cron.DefaultLogger)))
	c.Start()
	return &Scheduler{cron: c}
}

// AddJob schedules a task using the provided cron expression.
// It returns an error if the expression is invalid.
func (s *Scheduler) AddJob(expr string, task func()) error {
	_, err := s.cron.AddFunc(expr, task)
	return err
}

// AddDailyJob schedules a task to run once per day at the given UTC hour.
func (s *Scheduler) AddDailyJob(hour int, task func()) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("daily job hour out of range: %d", hour)
	}
	return s.AddJob(fmt.Sprintf("0 %d * * *", hour), task)
}

// Stop stops the cron scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
