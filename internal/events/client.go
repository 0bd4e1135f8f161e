package events

import (
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Config holds NATS connection configuration
type Config struct {
	URL           string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultConfig returns a default NATS configuration
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

// Client wraps the NATS connection and JetStream context
type Client struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	config Config
	logger *logrus.Logger
}

// NewClient creates a new NATS client
func NewClient(cfg Config, logger *logrus.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.Name("crm-service"),
		nats.Timeout(10 * time.Second),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Printf("[NATS] Disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("[NATS] Reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Printf("[NATS] Connection closed")
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream(nats.PublishAsyncMaxPending(256))
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	client := &Client{
		conn:   conn,
		js:     js,
		config: cfg,
		logger: logger,
	}

	if err := client.ensureStream(); err != nil {
		log.Printf("Warning: failed to ensure CRM event stream: %v", err)
	}

	log.Printf("Connected to NATS at %s", cfg.URL)
	return client, nil
}

// Close drains and closes the NATS connection
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Drain()
		c.conn.Close()
	}
}

// JetStream returns the JetStream context
func (c *Client) JetStream() nats.JetStreamContext {
	return c.js
}

// IsConnected returns true if connected to NATS
func (c *Client) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}

// ensureStream creates the CRM_EVENTS stream if it doesn't exist
func (c *Client) ensureStream() error {
	streamCfg := nats.StreamConfig{
		Name:        "CRM_EVENTS",
		Description: "Customer interaction events",
		Subjects:    []string{"crm.>"},
		Storage:     nats.FileStorage,
		Retention:   nats.LimitsPolicy,
		MaxAge:      7 * 24 * time.Hour,
		MaxMsgs:     100000,
		Discard:     nats.DiscardOld,
		Replicas:    1,
	}

	_, err := c.js.StreamInfo(streamCfg.Name)
	if err == nats.ErrStreamNotFound {
		_, err = c.js.AddStream(&streamCfg)
		if err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
		log.Printf("Created CRM_EVENTS stream")
	} else if err != nil {
		return fmt.Errorf("failed to check stream: %w", err)
	}

	return nil
}
