// Package scheduler wires recurring maintenance onto cron schedules.
package scheduler

import (
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/bookshelfapp/bookshelf/internal/tasks"
)

// CleanupScheduler enqueues the orphaned-upload cleanup task on a cron
// schedule. The actual sweep runs on the task queue workers, not here.
type CleanupScheduler struct {
	taskClient *tasks.Client
	schedule   string

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewCleanupScheduler creates a scheduler for the given cron schedule.
func NewCleanupScheduler(taskClient *tasks.Client, schedule string) *CleanupScheduler {
	return &CleanupScheduler{
		taskClient: taskClient,
		schedule:   schedule,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the schedule.
func (s *CleanupScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, s.enqueue)
	if err != nil {
		return fmt.Errorf("invalid cleanup schedule '%s': %w", s.schedule, err)
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Upload cleanup scheduled: %s", s.schedule)
	return nil
}

// Stop halts the schedule and waits for a running enqueue to finish.
func (s *CleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	log.Printf("Upload cleanup scheduler stopped")
}

// RunNow enqueues a cleanup immediately, outside the schedule.
func (s *CleanupScheduler) RunNow() error {
	s.enqueue()
	return nil
}

func (s *CleanupScheduler) enqueue() {
	if _, err := s.taskClient.Add(tasks.CleanupUploadsTask{}).Save(); err != nil {
		log.Printf("Failed to enqueue upload cleanup: %v", err)
	}
}
