package repository

import (
	"context"
	"time"

	"github.com/tesseract-hub/crm-service/internal/models"
)

// CustomerRepository defines the persistence contract for customers.
// Lookups return (nil, nil) when the record does not exist; only storage
// failures surface as errors.
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	List(ctx context.Context) ([]models.Customer, error)
	Search(ctx context.Context, term string) ([]models.Customer, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

// OpportunityRepository defines the persistence contract for opportunities.
//
// Update and MoveStage read the prior stage and write the new state inside
// a single transaction with a row lock, so the stage recorded as "from" in
// the audit trail cannot be stale against a concurrent writer.
type OpportunityRepository interface {
	Create(ctx context.Context, opp *models.Opportunity) error

	// Update persists the opportunity and returns the stage stored before
	// the write. found is false when no row existed prior to the update;
	// the update itself still executes (affecting zero rows).
	Update(ctx context.Context, opp *models.Opportunity) (prior models.OpportunityStage, found bool, err error)

	// MoveStage updates only the stage column and returns the record as it
	// was before the move, or nil when the opportunity does not exist.
	MoveStage(ctx context.Context, id uint, stage models.OpportunityStage) (*models.Opportunity, error)

	GetByID(ctx context.Context, id uint) (*models.Opportunity, error)
	List(ctx context.Context) ([]models.Opportunity, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]models.Opportunity, error)
	ListByStage(ctx context.Context, stage models.OpportunityStage) ([]models.Opportunity, error)
	Delete(ctx context.Context, id uint) (bool, error)

	// SalesByDay sums the value of Won opportunities grouped by creation
	// date within the inclusive date range. This queries the store directly
	// rather than scanning an in-memory list.
	SalesByDay(ctx context.Context, from, to time.Time) ([]models.DailySales, error)
}

// TaskRepository defines the persistence contract for tasks
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, task *models.Task) error

	// MarkDone sets the status to Done and stamps the completion time.
	// It is not idempotent: a repeat call re-stamps completed_at.
	MarkDone(ctx context.Context, id uint, completedAt time.Time) error

	GetByID(ctx context.Context, id uint) (*models.Task, error)
	List(ctx context.Context) ([]models.Task, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]models.Task, error)
	ListByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error)
	PendingToday(ctx context.Context, now time.Time) ([]models.Task, error)
	Overdue(ctx context.Context, now time.Time) ([]models.Task, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

// InteractionRepository defines the persistence contract for the append-only
// interaction log. There are no update or delete operations.
type InteractionRepository interface {
	Append(ctx context.Context, entry *models.InteractionLog) error
	ListByCustomer(ctx context.Context, customerID uint) ([]models.InteractionLog, error)
}
