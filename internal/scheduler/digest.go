package scheduler

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/crm-service/internal/config"
	"github.com/tesseract-hub/crm-service/internal/services"
)

// DigestScheduler runs a daily digest of overdue tasks: pending tasks whose
// scheduled time has passed are counted and logged for the sales team. The
// job is read-only and never mutates task state.
type DigestScheduler struct {
	tasks   *services.TaskService
	config  config.DigestConfig
	logger  *logrus.Logger
	cron    *cron.Cron
	mu      sync.Mutex
	running bool
}

// NewDigestScheduler creates a new digest scheduler
func NewDigestScheduler(tasks *services.TaskService, cfg config.DigestConfig, logger *logrus.Logger) *DigestScheduler {
	return &DigestScheduler{
		tasks:  tasks,
		config: cfg,
		logger: logger,
	}
}

// Start starts the digest scheduler
func (s *DigestScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	if !s.config.Enabled {
		s.logger.Info("Overdue task digest is disabled")
		return nil
	}

	s.cron = cron.New(cron.WithSeconds())

	schedule := s.config.Schedule
	if schedule == "" {
		schedule = "0 0 8 * * *" // Default: 8 AM daily (with seconds)
	}

	// Convert 5-field cron to 6-field (add seconds prefix)
	fields := strings.Fields(schedule)
	if len(fields) == 5 {
		schedule = "0 " + schedule
	}

	_, err := s.cron.AddFunc(schedule, s.runDigest)
	if err != nil {
		s.logger.WithError(err).Error("Failed to schedule digest job")
		return err
	}

	s.cron.Start()
	s.running = true

	s.logger.WithField("schedule", s.config.Schedule).Info("Overdue task digest scheduler started")

	return nil
}

// Stop stops the digest scheduler
func (s *DigestScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.cron == nil {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false
	s.logger.Info("Overdue task digest scheduler stopped")
}

// runDigest counts overdue tasks and logs the breakdown
func (s *DigestScheduler) runDigest() {
	ctx := context.Background()
	startTime := time.Now()

	tasks, err := s.tasks.Overdue(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to build overdue task digest")
		return
	}

	byPriority := make(map[string]int)
	customers := make(map[uint]struct{})
	for _, task := range tasks {
		byPriority[string(task.Priority)]++
		customers[task.CustomerID] = struct{}{}
	}

	s.logger.WithFields(logrus.Fields{
		"overdue_total":      len(tasks),
		"by_priority":        byPriority,
		"customers_affected": len(customers),
		"duration":           time.Since(startTime).String(),
	}).Info("Overdue task digest")
}

// RunNow triggers an immediate digest (for testing/manual trigger)
func (s *DigestScheduler) RunNow() {
	go s.runDigest()
}

// IsRunning returns whether the scheduler is running
func (s *DigestScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
