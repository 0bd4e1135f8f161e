package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/crm-service/internal/models"
)

// Publisher streams interaction-log entries to JetStream so downstream
// consumers (notification fan-out, analytics) can follow the audit trail.
type Publisher struct {
	client *Client
	logger *logrus.Logger
}

// NewPublisher creates a new interaction event publisher
func NewPublisher(client *Client, logger *logrus.Logger) *Publisher {
	return &Publisher{
		client: client,
		logger: logger,
	}
}

// PublishInteraction publishes an interaction-log entry on the subject
// crm.interaction.<kind>. Publishing is best-effort: a disconnected broker
// is skipped, not an error, since the entry is already durably persisted.
func (p *Publisher) PublishInteraction(ctx context.Context, entry *models.InteractionLog) error {
	if p.client == nil || !p.client.IsConnected() {
		p.logger.Warn("NATS not connected, skipping event publish")
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal interaction event: %w", err)
	}

	subject := fmt.Sprintf("crm.interaction.%s", entry.Kind)

	ack, err := p.client.JetStream().Publish(subject, data, nats.Context(ctx))
	if err != nil {
		p.logger.WithFields(logrus.Fields{
			"kind":    entry.Kind,
			"subject": subject,
		}).WithError(err).Error("Failed to publish interaction event")
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"kind":     entry.Kind,
		"sequence": ack.Sequence,
		"stream":   ack.Stream,
	}).Debug("Published interaction event")

	return nil
}
