package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tesseract-hub/crm-service/internal/models"
)

// GormOpportunityRepository handles database operations for opportunities
type GormOpportunityRepository struct {
	db *gorm.DB
}

// NewOpportunityRepository creates a new opportunity repository
func NewOpportunityRepository(db *gorm.DB) *GormOpportunityRepository {
	return &GormOpportunityRepository{db: db}
}

// Create inserts a new opportunity and populates its ID
func (r *GormOpportunityRepository) Create(ctx context.Context, opp *models.Opportunity) error {
	return r.db.WithContext(ctx).Create(opp).Error
}

// Update persists the opportunity and reports the stage stored before the
// write. The read and the write share one transaction with a row lock, so
// the returned prior stage cannot be stale against a concurrent writer.
func (r *GormOpportunityRepository) Update(ctx context.Context, opp *models.Opportunity) (models.OpportunityStage, bool, error) {
	var prior models.OpportunityStage
	found := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Opportunity
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&existing, "id = ?", opp.ID).Error
		switch {
		case err == nil:
			prior = existing.Stage
			found = true
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Update still proceeds, affecting zero rows.
		default:
			return err
		}

		return tx.Model(&models.Opportunity{}).
			Where("id = ?", opp.ID).
			Updates(map[string]interface{}{
				"customer_id":         opp.CustomerID,
				"title":               opp.Title,
				"stage":               opp.Stage,
				"value":               opp.Value,
				"probability":         opp.Probability,
				"expected_close_date": opp.ExpectedCloseDate,
				"owner":               opp.Owner,
				"notes":               opp.Notes,
			}).Error
	})
	if err != nil {
		return "", false, err
	}
	return prior, found, nil
}

// MoveStage updates only the stage column and returns the record as it was
// before the move, or nil when the opportunity does not exist. Read and
// write share a transaction for the same reason as Update.
func (r *GormOpportunityRepository) MoveStage(ctx context.Context, id uint, stage models.OpportunityStage) (*models.Opportunity, error) {
	var prior *models.Opportunity

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Opportunity
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&existing, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		prior = &existing

		return tx.Model(&models.Opportunity{}).
			Where("id = ?", id).
			Update("stage", stage).Error
	})
	if err != nil {
		return nil, err
	}
	return prior, nil
}

// GetByID retrieves an opportunity by ID, or nil when it does not exist
func (r *GormOpportunityRepository) GetByID(ctx context.Context, id uint) (*models.Opportunity, error) {
	var opp models.Opportunity
	err := r.db.WithContext(ctx).First(&opp, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &opp, nil
}

// List retrieves all opportunities, newest first
func (r *GormOpportunityRepository) List(ctx context.Context) ([]models.Opportunity, error) {
	var opps []models.Opportunity
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&opps).Error
	return opps, err
}

// ListByCustomer retrieves a customer's opportunities, newest first
func (r *GormOpportunityRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.Opportunity, error) {
	var opps []models.Opportunity
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&opps).Error
	return opps, err
}

// ListByStage retrieves all opportunities in a given stage
func (r *GormOpportunityRepository) ListByStage(ctx context.Context, stage models.OpportunityStage) ([]models.Opportunity, error) {
	var opps []models.Opportunity
	err := r.db.WithContext(ctx).
		Where("stage = ?", stage).
		Order("created_at DESC").
		Find(&opps).Error
	return opps, err
}

// Delete removes an opportunity
func (r *GormOpportunityRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Opportunity{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SalesByDay sums Won opportunity values grouped by creation date within the
// inclusive date range.
func (r *GormOpportunityRepository) SalesByDay(ctx context.Context, from, to time.Time) ([]models.DailySales, error) {
	var rows []models.DailySales
	err := r.db.WithContext(ctx).
		Model(&models.Opportunity{}).
		Select("DATE(created_at) AS day, SUM(value) AS total").
		Where("stage = ?", models.StageWon).
		Where("DATE(created_at) BETWEEN ? AND ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Group("DATE(created_at)").
		Order("day").
		Scan(&rows).Error
	return rows, err
}
