package models

import (
	"time"

	"gorm.io/datatypes"
)

// Interaction log entry kinds. The log is an append-only audit trail: one
// row per customer-related event, written by the domain services and read
// newest-first by customer detail views.
const (
	KindCustomerCreated         = "customer_created"
	KindCustomerEdited          = "customer_edited"
	KindCustomerDeleted         = "customer_deleted"
	KindOpportunityCreated      = "opportunity_created"
	KindOpportunityStageChanged = "opportunity_stage_changed"
	KindTaskCreated             = "task_created"
	KindTaskCompleted           = "task_completed"
)

// InteractionLog is a single audit-trail record. Entries are never updated
// or deleted by the domain services.
type InteractionLog struct {
	ID uint `json:"id" gorm:"primaryKey;autoIncrement"`

	// Plain column, no foreign key: the customer_deleted entry is written
	// after its customer row is gone and must outlive it.
	CustomerID uint `json:"customerId" gorm:"not null;index"`

	Kind        string `json:"kind" gorm:"type:varchar(50);not null;index"`
	Description string `json:"description" gorm:"type:text"`

	// Structured context for the event, e.g. {"from":"Lead","to":"Won"}
	// for a stage change.
	Metadata datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

// TableName specifies the table name
func (InteractionLog) TableName() string {
	return "interaction_log"
}
