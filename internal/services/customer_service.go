package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/crm-service/internal/models"
	"github.com/tesseract-hub/crm-service/internal/repository"
	"github.com/tesseract-hub/crm-service/internal/validation"
)

// CustomerService enforces the business rules for customer records
type CustomerService struct {
	customers repository.CustomerRepository
	audit     *InteractionService
	logger    *logrus.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(customers repository.CustomerRepository, audit *InteractionService, logger *logrus.Logger) *CustomerService {
	return &CustomerService{
		customers: customers,
		audit:     audit,
		logger:    logger,
	}
}

// validate applies the shared create/update rules: name is required, email
// and tax id are validated only when present.
func (s *CustomerService) validate(customer *models.Customer) error {
	if strings.TrimSpace(customer.Name) == "" {
		return NewValidationError("name", "name is required")
	}
	if customer.Email != "" && !validation.ValidEmail(customer.Email) {
		return NewValidationError("email", "invalid email address")
	}
	if customer.TaxID != "" && !validation.ValidTaxID(customer.TaxID) {
		return NewValidationError("taxId", "invalid tax id")
	}
	return nil
}

// Create validates and persists a new customer and records the event in the
// interaction log. Returns the new id.
func (s *CustomerService) Create(ctx context.Context, customer *models.Customer) (uint, error) {
	if err := s.validate(customer); err != nil {
		return 0, err
	}
	customer.ApplyDefaults()

	if err := s.customers.Create(ctx, customer); err != nil {
		s.logger.WithError(err).Error("Failed to create customer")
		return 0, fmt.Errorf("failed to create customer: %w", err)
	}

	if err := s.audit.Record(ctx, OpCustomerCreate, customer.ID,
		fmt.Sprintf("Customer %s was registered", customer.Name), nil); err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"customer_id": customer.ID,
		"name":        customer.Name,
	}).Info("Customer created")

	return customer.ID, nil
}

// Update validates and persists changes to an existing customer. The
// interaction log entry is appended only when the persistence update
// reports success.
func (s *CustomerService) Update(ctx context.Context, customer *models.Customer) (bool, error) {
	if customer.ID == 0 {
		return false, NewValidationError("id", "customer id is required for update")
	}
	if err := s.validate(customer); err != nil {
		return false, err
	}
	customer.ApplyDefaults()

	if err := s.customers.Update(ctx, customer); err != nil {
		s.logger.WithError(err).WithField("customer_id", customer.ID).Error("Failed to update customer")
		return false, fmt.Errorf("failed to update customer: %w", err)
	}

	if err := s.audit.Record(ctx, OpCustomerUpdate, customer.ID,
		fmt.Sprintf("Customer %s was updated", customer.Name), nil); err != nil {
		return false, err
	}

	return true, nil
}

// Get retrieves a customer by id, or nil when it does not exist
func (s *CustomerService) Get(ctx context.Context, id uint) (*models.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", id).Error("Failed to get customer")
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

// List retrieves all customers
func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list customers")
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// Search retrieves customers matching the term against name, email, company
// or city.
func (s *CustomerService) Search(ctx context.Context, term string) ([]models.Customer, error) {
	customers, err := s.customers.Search(ctx, term)
	if err != nil {
		s.logger.WithError(err).WithField("term", term).Error("Failed to search customers")
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	return customers, nil
}

// Delete removes a customer, returning false when it does not exist. The
// log entry captures the customer's name at time of deletion; dependent
// records cascade at the storage layer.
func (s *CustomerService) Delete(ctx context.Context, id uint) (bool, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", id).Error("Failed to load customer for deletion")
		return false, fmt.Errorf("failed to load customer for deletion: %w", err)
	}
	if customer == nil {
		return false, nil
	}

	deleted, err := s.customers.Delete(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", id).Error("Failed to delete customer")
		return false, fmt.Errorf("failed to delete customer: %w", err)
	}
	if !deleted {
		return false, nil
	}

	if err := s.audit.Record(ctx, OpCustomerDelete, id,
		fmt.Sprintf("Customer %s was deleted", customer.Name), nil); err != nil {
		return false, err
	}

	s.logger.WithFields(logrus.Fields{
		"customer_id": id,
		"name":        customer.Name,
	}).Info("Customer deleted")

	return true, nil
}
