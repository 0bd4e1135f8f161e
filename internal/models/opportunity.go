package models

import (
	"strings"
	"time"
)

// OpportunityStage represents where an opportunity sits in the sales funnel
type OpportunityStage string

const (
	StageLead          OpportunityStage = "Lead"
	StageQualification OpportunityStage = "Qualification"
	StageProposal      OpportunityStage = "Proposal"
	StageNegotiation   OpportunityStage = "Negotiation"
	StageWon           OpportunityStage = "Won"
	StageLost          OpportunityStage = "Lost"
)

// OpportunityStages returns the stage vocabulary in display order.
// Order matters for display only; any stage is reachable from any other.
func OpportunityStages() []OpportunityStage {
	return []OpportunityStage{
		StageLead,
		StageQualification,
		StageProposal,
		StageNegotiation,
		StageWon,
		StageLost,
	}
}

// IsValid checks membership in the fixed stage vocabulary
func (s OpportunityStage) IsValid() bool {
	switch s {
	case StageLead, StageQualification, StageProposal, StageNegotiation, StageWon, StageLost:
		return true
	}
	return false
}

// IsClosed reports whether the stage is terminal for forecasting purposes.
// Closed opportunities are excluded from the weighted open value.
func (s OpportunityStage) IsClosed() bool {
	return s == StageWon || s == StageLost
}

// Opportunity represents a sales opportunity in the funnel
type Opportunity struct {
	ID uint `json:"id" gorm:"primaryKey;autoIncrement"`

	CustomerID uint      `json:"customerId" gorm:"not null;index"`
	Customer   *Customer `json:"-" gorm:"constraint:OnDelete:CASCADE"`

	Title       string           `json:"title" gorm:"type:varchar(255);not null"`
	Stage       OpportunityStage `json:"stage" gorm:"type:varchar(20);not null;default:'Lead';index"`
	Value       float64          `json:"value" gorm:"type:decimal(15,2);default:0"`
	Probability int              `json:"probability" gorm:"default:0;check:probability >= 0 AND probability <= 100"`

	ExpectedCloseDate *time.Time `json:"expectedCloseDate" gorm:"type:date;index"`
	Owner             string     `json:"owner" gorm:"type:varchar(255)"`
	Notes             string     `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (Opportunity) TableName() string {
	return "opportunities"
}

// ApplyDefaults normalizes an opportunity before persistence. An unspecified
// stage defaults to Lead, the funnel's initial state.
func (o *Opportunity) ApplyDefaults() {
	o.Title = strings.TrimSpace(o.Title)
	if o.Stage == "" {
		o.Stage = StageLead
	}
}

// WeightedValue returns the forecast contribution of this opportunity
func (o *Opportunity) WeightedValue() float64 {
	return o.Value * float64(o.Probability) / 100
}

// DailySales is one row of the sales-by-day aggregation: the summed value of
// Won opportunities grouped by creation date.
type DailySales struct {
	Day   time.Time `json:"day"`
	Total float64   `json:"total"`
}

// OpportunityMetrics bundles the pipeline forecast numbers
type OpportunityMetrics struct {
	WeightedOpenValue float64 `json:"weightedOpenValue"`
	ConversionRate    float64 `json:"conversionRate"`
}
