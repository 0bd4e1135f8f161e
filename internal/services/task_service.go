package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/crm-service/internal/models"
	"github.com/tesseract-hub/crm-service/internal/repository"
)

// TaskService enforces the business rules for follow-up activities
type TaskService struct {
	tasks  repository.TaskRepository
	audit  *InteractionService
	logger *logrus.Logger
	now    func() time.Time
}

// NewTaskService creates a new task service
func NewTaskService(tasks repository.TaskRepository, audit *InteractionService, logger *logrus.Logger) *TaskService {
	return &TaskService{
		tasks:  tasks,
		audit:  audit,
		logger: logger,
		now:    time.Now,
	}
}

// Create validates and persists a new task and records the event in the
// interaction log. Unspecified type, status and priority default to Other,
// Pending and Medium.
func (s *TaskService) Create(ctx context.Context, task *models.Task) (uint, error) {
	task.ApplyDefaults()

	if strings.TrimSpace(task.Description) == "" {
		return 0, NewValidationError("description", "description is required")
	}
	if task.CustomerID == 0 {
		return 0, NewValidationError("customerId", "customer is required")
	}
	if !task.Type.IsValid() {
		return 0, NewValidationError("type", fmt.Sprintf("invalid task type, use one of: %v", models.TaskTypes()))
	}
	if !task.Status.IsValid() {
		return 0, NewValidationError("status", "invalid task status")
	}
	if !task.Priority.IsValid() {
		return 0, NewValidationError("priority", "invalid task priority")
	}
	if task.ScheduledAt.IsZero() {
		return 0, NewValidationError("scheduledAt", "scheduled date is required")
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		s.logger.WithError(err).Error("Failed to create task")
		return 0, fmt.Errorf("failed to create task: %w", err)
	}

	if err := s.audit.Record(ctx, OpTaskCreate, task.CustomerID,
		fmt.Sprintf("Task '%s' (%s) was scheduled", task.Description, task.Type),
		map[string]interface{}{"type": task.Type, "priority": task.Priority}); err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"task_id":     task.ID,
		"customer_id": task.CustomerID,
		"type":        task.Type,
	}).Info("Task created")

	return task.ID, nil
}

// Update validates and persists changes to an existing task. Unlike create
// and complete, plain edits are not recorded in the interaction log.
func (s *TaskService) Update(ctx context.Context, task *models.Task) (bool, error) {
	if task.ID == 0 {
		return false, NewValidationError("id", "task id is required")
	}
	if strings.TrimSpace(task.Description) == "" {
		return false, NewValidationError("description", "description is required")
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		s.logger.WithError(err).WithField("task_id", task.ID).Error("Failed to update task")
		return false, fmt.Errorf("failed to update task: %w", err)
	}
	return true, nil
}

// MarkDone marks a task as completed and records the event in the
// interaction log. Completing an already-done task stamps a fresh
// completion time and appends another entry.
func (s *TaskService) MarkDone(ctx context.Context, id uint) (bool, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("task_id", id).Error("Failed to load task for completion")
		return false, fmt.Errorf("failed to complete task: %w", err)
	}
	if task == nil {
		return false, nil
	}

	completedAt := s.now()
	if err := s.tasks.MarkDone(ctx, id, completedAt); err != nil {
		s.logger.WithError(err).WithField("task_id", id).Error("Failed to complete task")
		return false, fmt.Errorf("failed to complete task: %w", err)
	}

	if err := s.audit.Record(ctx, OpTaskComplete, task.CustomerID,
		fmt.Sprintf("Task '%s' was completed", task.Description),
		map[string]interface{}{"type": task.Type}); err != nil {
		return false, err
	}

	s.logger.WithFields(logrus.Fields{
		"task_id":     id,
		"customer_id": task.CustomerID,
	}).Info("Task completed")

	return true, nil
}

// Get retrieves a task by id, or nil when it does not exist
func (s *TaskService) Get(ctx context.Context, id uint) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("task_id", id).Error("Failed to get task")
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// List retrieves all tasks
func (s *TaskService) List(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list tasks")
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ByCustomer retrieves a customer's tasks
func (s *TaskService) ByCustomer(ctx context.Context, customerID uint) ([]models.Task, error) {
	tasks, err := s.tasks.ListByCustomer(ctx, customerID)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", customerID).Error("Failed to list tasks by customer")
		return nil, fmt.Errorf("failed to list tasks by customer: %w", err)
	}
	return tasks, nil
}

// ByStatus retrieves all tasks with a given status
func (s *TaskService) ByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error) {
	if !status.IsValid() {
		return nil, NewValidationError("status", "invalid task status")
	}
	tasks, err := s.tasks.ListByStatus(ctx, status)
	if err != nil {
		s.logger.WithError(err).WithField("status", status).Error("Failed to list tasks by status")
		return nil, fmt.Errorf("failed to list tasks by status: %w", err)
	}
	return tasks, nil
}

// PendingToday retrieves the pending tasks scheduled for the current day
func (s *TaskService) PendingToday(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.tasks.PendingToday(ctx, s.now())
	if err != nil {
		s.logger.WithError(err).Error("Failed to list today's pending tasks")
		return nil, fmt.Errorf("failed to list today's pending tasks: %w", err)
	}
	return tasks, nil
}

// Overdue retrieves pending tasks whose scheduled time has already passed
func (s *TaskService) Overdue(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.tasks.Overdue(ctx, s.now())
	if err != nil {
		s.logger.WithError(err).Error("Failed to list overdue tasks")
		return nil, fmt.Errorf("failed to list overdue tasks: %w", err)
	}
	return tasks, nil
}

// Delete removes a task. No interaction-log entry is appended.
func (s *TaskService) Delete(ctx context.Context, id uint) (bool, error) {
	deleted, err := s.tasks.Delete(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("task_id", id).Error("Failed to delete task")
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return deleted, nil
}
