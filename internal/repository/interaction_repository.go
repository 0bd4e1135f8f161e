package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tesseract-hub/crm-service/internal/models"
)

// GormInteractionRepository handles database operations for the append-only
// interaction log.
type GormInteractionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new interaction repository
func NewInteractionRepository(db *gorm.DB) *GormInteractionRepository {
	return &GormInteractionRepository{db: db}
}

// Append inserts a new log entry
func (r *GormInteractionRepository) Append(ctx context.Context, entry *models.InteractionLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByCustomer retrieves a customer's interaction history, newest first
func (r *GormInteractionRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.InteractionLog, error) {
	var entries []models.InteractionLog
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	return entries, err
}
