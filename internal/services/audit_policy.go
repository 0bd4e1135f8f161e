package services

import "github.com/tesseract-hub/crm-service/internal/models"

// Operation identifies a domain-service operation for audit purposes
type Operation string

const (
	OpCustomerCreate Operation = "customer.create"
	OpCustomerUpdate Operation = "customer.update"
	OpCustomerDelete Operation = "customer.delete"

	OpOpportunityCreate    Operation = "opportunity.create"
	OpOpportunityUpdate    Operation = "opportunity.update"
	OpOpportunityMoveStage Operation = "opportunity.move_stage"
	OpOpportunityDelete    Operation = "opportunity.delete"

	OpTaskCreate   Operation = "task.create"
	OpTaskUpdate   Operation = "task.update"
	OpTaskComplete Operation = "task.complete"
	OpTaskDelete   Operation = "task.delete"
)

// auditRule declares whether an operation appends an interaction-log entry
// and under which kind tag.
type auditRule struct {
	Logs bool
	Kind string
}

// auditPolicy is the per-operation logging policy. The asymmetries are
// deliberate and match long-standing behavior: opportunity and task deletes
// leave no trail, task updates leave no trail, and an opportunity update
// logs only when the stage actually changed (gated in the service itself).
var auditPolicy = map[Operation]auditRule{
	OpCustomerCreate: {Logs: true, Kind: models.KindCustomerCreated},
	OpCustomerUpdate: {Logs: true, Kind: models.KindCustomerEdited},
	OpCustomerDelete: {Logs: true, Kind: models.KindCustomerDeleted},

	OpOpportunityCreate:    {Logs: true, Kind: models.KindOpportunityCreated},
	OpOpportunityUpdate:    {Logs: true, Kind: models.KindOpportunityStageChanged},
	OpOpportunityMoveStage: {Logs: true, Kind: models.KindOpportunityStageChanged},
	OpOpportunityDelete:    {Logs: false},

	OpTaskCreate:   {Logs: true, Kind: models.KindTaskCreated},
	OpTaskUpdate:   {Logs: false},
	OpTaskComplete: {Logs: true, Kind: models.KindTaskCompleted},
	OpTaskDelete:   {Logs: false},
}

// policyFor returns the audit rule for an operation. Unknown operations do
// not log.
func policyFor(op Operation) auditRule {
	return auditPolicy[op]
}
