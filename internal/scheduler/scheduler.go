package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"ExpoScreener/internal/screener"
)

// Scheduler runs periodic scans on a cron schedule.
type Scheduler struct {
	Cron        *cron.Cron
	Screener    *screener.Screener
	TargetCount int
}

// NewScheduler creates a new Scheduler.
func NewScheduler(s *screener.Screener, targetCount int) *Scheduler {
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds()),
		Screener:    s,
		TargetCount: targetCount,
	}
}

// Register installs the scan task on the given cron expression.
func (s *Scheduler) Register(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the scan immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.scanTask()
}

func (s *Scheduler) scanTask() {
	log.Println("[INFO] running scheduled scan")
	batch, err := s.Screener.Run(s.TargetCount)
	if err != nil {
		log.Printf("[ERROR] scheduled scan: %v", err)
		return
	}
	log.Printf("[INFO] scheduled scan finished: %d records", len(batch))
}
