package models

// DashboardSummary aggregates the headline CRM metrics. It is derived on
// every request from the entity lists; nothing here is stored.
type DashboardSummary struct {
	TotalCustomers       int64                      `json:"totalCustomers"`
	OpenOpportunities    int64                      `json:"openOpportunities"`
	WeightedOpenValue    float64                    `json:"weightedOpenValue"`
	TasksPendingToday    int64                      `json:"tasksPendingToday"`
	OpportunitiesByStage map[OpportunityStage]int64 `json:"opportunitiesByStage"`
	Tasks                TaskCounts                 `json:"tasks"`
	ConversionRate       float64                    `json:"conversionRate"`
}
