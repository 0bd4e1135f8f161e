package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tesseract-hub/crm-service/internal/models"
)

// GormCustomerRepository handles database operations for customers
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Create inserts a new customer and populates its ID
func (r *GormCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

// Update persists every mutable column of an existing customer. Updating a
// missing id affects zero rows and is not an error.
func (r *GormCustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customer.ID).
		Updates(map[string]interface{}{
			"name":        customer.Name,
			"email":       customer.Email,
			"phone":       customer.Phone,
			"company":     customer.Company,
			"tax_id":      customer.TaxID,
			"street":      customer.Street,
			"number":      customer.Number,
			"district":    customer.District,
			"city":        customer.City,
			"state":       customer.State,
			"postal_code": customer.PostalCode,
			"notes":       customer.Notes,
		}).Error
}

// GetByID retrieves a customer by ID, or nil when it does not exist
func (r *GormCustomerRepository) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// List retrieves all customers ordered by name
func (r *GormCustomerRepository) List(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.WithContext(ctx).Order("name").Find(&customers).Error
	return customers, err
}

// Search matches the term as a case-insensitive substring against name,
// email, company or city.
func (r *GormCustomerRepository) Search(ctx context.Context, term string) ([]models.Customer, error) {
	var customers []models.Customer
	pattern := "%" + term + "%"
	err := r.db.WithContext(ctx).
		Where("name ILIKE ? OR email ILIKE ? OR company ILIKE ? OR city ILIKE ?",
			pattern, pattern, pattern, pattern).
		Order("name").
		Find(&customers).Error
	return customers, err
}

// Delete removes a customer. Dependent opportunities and tasks cascade at
// the storage layer; interaction log entries are kept.
func (r *GormCustomerRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Customer{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
