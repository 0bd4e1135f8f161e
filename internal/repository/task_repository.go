package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tesseract-hub/crm-service/internal/models"
)

// GormTaskRepository handles database operations for tasks
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// Create inserts a new task and populates its ID
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// Update persists the mutable columns of an existing task. Completion state
// is owned by MarkDone and is not touched here.
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"customer_id":  task.CustomerID,
			"description":  task.Description,
			"type":         task.Type,
			"scheduled_at": task.ScheduledAt,
			"status":       task.Status,
			"priority":     task.Priority,
			"notes":        task.Notes,
		}).Error
}

// MarkDone sets the status to Done and stamps the completion time
func (r *GormTaskRepository) MarkDone(ctx context.Context, id uint, completedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.TaskStatusDone,
			"completed_at": completedAt,
		}).Error
}

// GetByID retrieves a task by ID, or nil when it does not exist
func (r *GormTaskRepository) GetByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

// List retrieves all tasks ordered by schedule, newest first
func (r *GormTaskRepository) List(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).Order("scheduled_at DESC").Find(&tasks).Error
	return tasks, err
}

// ListByCustomer retrieves a customer's tasks, newest first
func (r *GormTaskRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("scheduled_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// ListByStatus retrieves tasks in a given status, earliest first
func (r *GormTaskRepository) ListByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("scheduled_at").
		Find(&tasks).Error
	return tasks, err
}

// PendingToday retrieves pending tasks scheduled for the current day
func (r *GormTaskRepository) PendingToday(ctx context.Context, now time.Time) ([]models.Task, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at >= ? AND scheduled_at < ?",
			models.TaskStatusPending, dayStart, dayEnd).
		Order("scheduled_at").
		Find(&tasks).Error
	return tasks, err
}

// Overdue retrieves pending tasks whose scheduled time has passed
func (r *GormTaskRepository) Overdue(ctx context.Context, now time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at < ?", models.TaskStatusPending, now).
		Order("scheduled_at").
		Find(&tasks).Error
	return tasks, err
}

// Delete removes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
