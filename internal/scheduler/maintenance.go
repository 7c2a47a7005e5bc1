// Package scheduler drives periodic maintenance: stale-book metadata sweeps
// and refresh-token cleanup, enqueued onto the task queue on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/libraryhub/libraryhub/internal/config"
	"github.com/libraryhub/libraryhub/internal/tasks"
)

// MaintenanceScheduler enqueues recurring maintenance tasks.
type MaintenanceScheduler struct {
	taskClient *tasks.Client
	config     config.Maintenance

	cron       *cron.Cron
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewMaintenanceScheduler creates a new scheduler instance.
func NewMaintenanceScheduler(taskClient *tasks.Client, cfg config.Maintenance) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		taskClient: taskClient,
		config:     cfg,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if maintenance is enabled.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("Maintenance scheduler: disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.config.RefreshSchedule, s.runRefreshSweep); err != nil {
		return fmt.Errorf("invalid refresh schedule '%s': %w", s.config.RefreshSchedule, err)
	}
	if _, err := s.cron.AddFunc(s.config.CleanupSchedule, s.runTokenCleanup); err != nil {
		return fmt.Errorf("invalid cleanup schedule '%s': %w", s.config.CleanupSchedule, err)
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Maintenance scheduler: started (refresh '%s', cleanup '%s')",
		s.config.RefreshSchedule, s.config.CleanupSchedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs to complete.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Maintenance scheduler: stopped")
}

// IsRunning reports whether the scheduler is active.
func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *MaintenanceScheduler) runRefreshSweep() {
	ttlHours := int(s.config.BookMetadataTTL / time.Hour)
	task := tasks.RefreshStaleBooksTask{TTLHours: ttlHours}
	if _, err := s.taskClient.Add(task).Save(); err != nil {
		log.Printf("Maintenance scheduler: failed to enqueue refresh sweep: %v", err)
		return
	}
	log.Printf("Maintenance scheduler: enqueued stale-book refresh sweep")
}

func (s *MaintenanceScheduler) runTokenCleanup() {
	if _, err := s.taskClient.Add(tasks.CleanupRefreshTokensTask{}).Save(); err != nil {
		log.Printf("Maintenance scheduler: failed to enqueue token cleanup: %v", err)
		return
	}
	log.Printf("Maintenance scheduler: enqueued refresh-token cleanup")
}
