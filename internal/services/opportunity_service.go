package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/crm-service/internal/health"
	"github.com/tesseract-hub/crm-service/internal/models"
	"github.com/tesseract-hub/crm-service/internal/repository"
)

// OpportunityService enforces the business rules for the sales funnel. The
// stage vocabulary is fixed at six values; any stage is reachable from any
// other, including moves out of Won and Lost.
type OpportunityService struct {
	opportunities repository.OpportunityRepository
	audit         *InteractionService
	logger        *logrus.Logger
	now           func() time.Time
}

// NewOpportunityService creates a new opportunity service
func NewOpportunityService(opportunities repository.OpportunityRepository, audit *InteractionService, logger *logrus.Logger) *OpportunityService {
	return &OpportunityService{
		opportunities: opportunities,
		audit:         audit,
		logger:        logger,
		now:           time.Now,
	}
}

// startOfToday returns midnight of the current day in local time
func (s *OpportunityService) startOfToday() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// Create validates and persists a new opportunity and records the event in
// the interaction log. An unspecified stage defaults to Lead.
func (s *OpportunityService) Create(ctx context.Context, opp *models.Opportunity) (uint, error) {
	opp.ApplyDefaults()

	if strings.TrimSpace(opp.Title) == "" {
		return 0, NewValidationError("title", "title is required")
	}
	if opp.CustomerID == 0 {
		return 0, NewValidationError("customerId", "customer is required")
	}
	if !opp.Stage.IsValid() {
		return 0, NewValidationError("stage", fmt.Sprintf("invalid stage, use one of: %v", models.OpportunityStages()))
	}
	if opp.Value < 0 {
		return 0, NewValidationError("value", "value cannot be negative")
	}
	if opp.Probability < 0 || opp.Probability > 100 {
		return 0, NewValidationError("probability", "probability must be between 0 and 100")
	}
	if opp.ExpectedCloseDate != nil && opp.ExpectedCloseDate.Before(s.startOfToday()) {
		return 0, NewValidationError("expectedCloseDate", "expected close date cannot be in the past")
	}

	if err := s.opportunities.Create(ctx, opp); err != nil {
		s.logger.WithError(err).Error("Failed to create opportunity")
		return 0, fmt.Errorf("failed to create opportunity: %w", err)
	}

	if err := s.audit.Record(ctx, OpOpportunityCreate, opp.CustomerID,
		fmt.Sprintf("Opportunity '%s' was created in stage %s", opp.Title, opp.Stage),
		map[string]interface{}{"stage": opp.Stage}); err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"opportunity_id": opp.ID,
		"customer_id":    opp.CustomerID,
		"stage":          opp.Stage,
	}).Info("Opportunity created")

	return opp.ID, nil
}

// Update validates and persists changes to an existing opportunity. The
// prior stage is read under the same transaction as the write; when the
// stage changed and the record existed beforehand, a stage-change entry is
// appended to the interaction log.
//
// Probability and expected close date are intentionally not re-validated on
// this path, matching the create/update asymmetry of the original rules.
func (s *OpportunityService) Update(ctx context.Context, opp *models.Opportunity) (bool, error) {
	if opp.ID == 0 {
		return false, NewValidationError("id", "opportunity id is required")
	}
	if strings.TrimSpace(opp.Title) == "" {
		return false, NewValidationError("title", "title is required")
	}
	if !opp.Stage.IsValid() {
		return false, NewValidationError("stage", fmt.Sprintf("invalid stage, use one of: %v", models.OpportunityStages()))
	}
	if opp.Value < 0 {
		return false, NewValidationError("value", "value cannot be negative")
	}

	prior, found, err := s.opportunities.Update(ctx, opp)
	if err != nil {
		s.logger.WithError(err).WithField("opportunity_id", opp.ID).Error("Failed to update opportunity")
		return false, fmt.Errorf("failed to update opportunity: %w", err)
	}

	if found && prior != opp.Stage {
		if err := s.audit.Record(ctx, OpOpportunityUpdate, opp.CustomerID,
			fmt.Sprintf("Opportunity '%s' moved from %s to %s", opp.Title, prior, opp.Stage),
			map[string]interface{}{"from": prior, "to": opp.Stage}); err != nil {
			return false, err
		}
	}

	return true, nil
}

// MoveStage moves an opportunity to the given stage, returning false when
// the opportunity does not exist. A stage-change entry is always appended,
// even when the requested stage equals the current one.
func (s *OpportunityService) MoveStage(ctx context.Context, id uint, stage models.OpportunityStage) (bool, error) {
	if !stage.IsValid() {
		return false, NewValidationError("stage", fmt.Sprintf("invalid stage, use one of: %v", models.OpportunityStages()))
	}

	prior, err := s.opportunities.MoveStage(ctx, id, stage)
	if err != nil {
		s.logger.WithError(err).WithField("opportunity_id", id).Error("Failed to move opportunity stage")
		return false, fmt.Errorf("failed to move opportunity stage: %w", err)
	}
	if prior == nil {
		return false, nil
	}

	if err := s.audit.Record(ctx, OpOpportunityMoveStage, prior.CustomerID,
		fmt.Sprintf("Opportunity '%s' moved from %s to %s", prior.Title, prior.Stage, stage),
		map[string]interface{}{"from": prior.Stage, "to": stage}); err != nil {
		return false, err
	}

	health.RecordStageMove(string(stage))

	s.logger.WithFields(logrus.Fields{
		"opportunity_id": id,
		"from":           prior.Stage,
		"to":             stage,
	}).Info("Opportunity stage moved")

	return true, nil
}

// Get retrieves an opportunity by id, or nil when it does not exist
func (s *OpportunityService) Get(ctx context.Context, id uint) (*models.Opportunity, error) {
	opp, err := s.opportunities.GetByID(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("opportunity_id", id).Error("Failed to get opportunity")
		return nil, fmt.Errorf("failed to get opportunity: %w", err)
	}
	return opp, nil
}

// List retrieves all opportunities
func (s *OpportunityService) List(ctx context.Context) ([]models.Opportunity, error) {
	opps, err := s.opportunities.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list opportunities")
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}
	return opps, nil
}

// ByCustomer retrieves a customer's opportunities
func (s *OpportunityService) ByCustomer(ctx context.Context, customerID uint) ([]models.Opportunity, error) {
	opps, err := s.opportunities.ListByCustomer(ctx, customerID)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", customerID).Error("Failed to list opportunities by customer")
		return nil, fmt.Errorf("failed to list opportunities by customer: %w", err)
	}
	return opps, nil
}

// ByStage retrieves all opportunities in a given stage
func (s *OpportunityService) ByStage(ctx context.Context, stage models.OpportunityStage) ([]models.Opportunity, error) {
	if !stage.IsValid() {
		return nil, NewValidationError("stage", fmt.Sprintf("invalid stage, use one of: %v", models.OpportunityStages()))
	}
	opps, err := s.opportunities.ListByStage(ctx, stage)
	if err != nil {
		s.logger.WithError(err).WithField("stage", stage).Error("Failed to list opportunities by stage")
		return nil, fmt.Errorf("failed to list opportunities by stage: %w", err)
	}
	return opps, nil
}

// Delete removes an opportunity. No interaction-log entry is appended.
func (s *OpportunityService) Delete(ctx context.Context, id uint) (bool, error) {
	deleted, err := s.opportunities.Delete(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("opportunity_id", id).Error("Failed to delete opportunity")
		return false, fmt.Errorf("failed to delete opportunity: %w", err)
	}
	return deleted, nil
}

// TotalWeightedOpenValue is the pipeline forecast: the sum of
// value x probability/100 over every opportunity not in Won or Lost.
func (s *OpportunityService) TotalWeightedOpenValue(ctx context.Context) (float64, error) {
	opps, err := s.opportunities.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list opportunities for weighted value")
		return 0, fmt.Errorf("failed to compute weighted open value: %w", err)
	}

	total := 0.0
	for _, opp := range opps {
		if !opp.Stage.IsClosed() {
			total += opp.WeightedValue()
		}
	}
	return total, nil
}

// ConversionRate is count(Won) / count(all) x 100, or 0 when there are no
// opportunities.
func (s *OpportunityService) ConversionRate(ctx context.Context) (float64, error) {
	opps, err := s.opportunities.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list opportunities for conversion rate")
		return 0, fmt.Errorf("failed to compute conversion rate: %w", err)
	}
	if len(opps) == 0 {
		return 0, nil
	}

	won := 0
	for _, opp := range opps {
		if opp.Stage == models.StageWon {
			won++
		}
	}
	return float64(won) / float64(len(opps)) * 100, nil
}
