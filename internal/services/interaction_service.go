package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/crm-service/internal/events"
	"github.com/tesseract-hub/crm-service/internal/health"
	"github.com/tesseract-hub/crm-service/internal/models"
	"github.com/tesseract-hub/crm-service/internal/repository"
)

// InteractionService owns the append-only interaction log: the other domain
// services record events through it, and customer detail views read the
// history back newest-first.
type InteractionService struct {
	interactions repository.InteractionRepository
	publisher    *events.Publisher
	logger       *logrus.Logger
}

// NewInteractionService creates a new interaction service. The publisher may
// be nil when event streaming is disabled.
func NewInteractionService(interactions repository.InteractionRepository, publisher *events.Publisher, logger *logrus.Logger) *InteractionService {
	return &InteractionService{
		interactions: interactions,
		publisher:    publisher,
		logger:       logger,
	}
}

// Record appends an interaction-log entry for the given operation, subject
// to the declared per-operation audit policy. Operations the policy marks
// as silent are a no-op.
func (s *InteractionService) Record(ctx context.Context, op Operation, customerID uint, description string, metadata map[string]interface{}) error {
	rule := policyFor(op)
	if !rule.Logs {
		return nil
	}

	entry := &models.InteractionLog{
		CustomerID:  customerID,
		Kind:        rule.Kind,
		Description: description,
	}
	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal interaction metadata: %w", err)
		}
		entry.Metadata = raw
	}

	if err := s.interactions.Append(ctx, entry); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"customer_id": customerID,
			"kind":        rule.Kind,
		}).Error("Failed to append interaction log entry")
		return fmt.Errorf("failed to append interaction log entry: %w", err)
	}

	health.RecordInteraction(rule.Kind)

	if s.publisher != nil {
		go func() {
			if err := s.publisher.PublishInteraction(context.Background(), entry); err != nil {
				s.logger.WithError(err).WithField("kind", entry.Kind).Warn("Failed to publish interaction event")
			}
		}()
	}

	return nil
}

// ByCustomer retrieves a customer's interaction history, newest first
func (s *InteractionService) ByCustomer(ctx context.Context, customerID uint) ([]models.InteractionLog, error) {
	entries, err := s.interactions.ListByCustomer(ctx, customerID)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", customerID).Error("Failed to list interaction history")
		return nil, fmt.Errorf("failed to list interaction history: %w", err)
	}
	return entries, nil
}
