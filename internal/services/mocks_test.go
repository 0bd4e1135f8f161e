package services

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/tesseract-hub/crm-service/internal/models"
)

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context) ([]models.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Search(ctx context.Context, term string) ([]models.Customer, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockOpportunityRepository is a mock implementation of OpportunityRepository
type MockOpportunityRepository struct {
	mock.Mock
}

func (m *MockOpportunityRepository) Create(ctx context.Context, opp *models.Opportunity) error {
	args := m.Called(ctx, opp)
	return args.Error(0)
}

func (m *MockOpportunityRepository) Update(ctx context.Context, opp *models.Opportunity) (models.OpportunityStage, bool, error) {
	args := m.Called(ctx, opp)
	return args.Get(0).(models.OpportunityStage), args.Bool(1), args.Error(2)
}

func (m *MockOpportunityRepository) MoveStage(ctx context.Context, id uint, stage models.OpportunityStage) (*models.Opportunity, error) {
	args := m.Called(ctx, id, stage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) GetByID(ctx context.Context, id uint) (*models.Opportunity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) List(ctx context.Context) ([]models.Opportunity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.Opportunity, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) ListByStage(ctx context.Context, stage models.OpportunityStage) ([]models.Opportunity, error) {
	args := m.Called(ctx, stage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) Delete(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockOpportunityRepository) SalesByDay(ctx context.Context, from, to time.Time) ([]models.DailySales, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DailySales), args.Error(1)
}

// MockTaskRepository is a mock implementation of TaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *models.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *models.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) MarkDone(ctx context.Context, id uint, completedAt time.Time) error {
	args := m.Called(ctx, id, completedAt)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uint) (*models.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context) ([]models.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.Task, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Task), args.Error(1)
}

func (m *MockTaskRepository) PendingToday(ctx context.Context, now time.Time) ([]models.Task, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Task), args.Error(1)
}

func (m *MockTaskRepository) Overdue(ctx context.Context, now time.Time) ([]models.Task, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Task), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockInteractionRepository is a mock implementation of InteractionRepository
type MockInteractionRepository struct {
	mock.Mock
}

func (m *MockInteractionRepository) Append(ctx context.Context, entry *models.InteractionLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockInteractionRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.InteractionLog, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InteractionLog), args.Error(1)
}

// testLogger returns a logger that discards all output
func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newTestAudit wires an interaction service around a mock repository with
// no event publisher.
func newTestAudit(interactions *MockInteractionRepository) *InteractionService {
	return NewInteractionService(interactions, nil, testLogger())
}
