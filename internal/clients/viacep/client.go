package viacep

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const (
	DefaultBaseURL = "https://viacep.com.br"
	DefaultTimeout = 10 * time.Second
)

// Client is an HTTP client for the ViaCEP postal-code lookup API,
// guarded by a circuit breaker so that a broken upstream cannot pile up
// slow outbound requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// Address represents the response from a /ws/{cep}/json lookup
type Address struct {
	PostalCode string `json:"cep"`
	Street     string `json:"logradouro"`
	Complement string `json:"complemento"`
	District   string `json:"bairro"`
	City       string `json:"localidade"`
	State      string `json:"uf"`
	NotFound   bool   `json:"erro,omitempty"`
}

// NewClient creates a new ViaCEP client
func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	settings := gobreaker.Settings{
		Name:        "viacep",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"circuit_breaker": name,
				"from":            from.String(),
				"to":              to.String(),
			}).Info("Circuit breaker state changed")
		},
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Lookup resolves an 8-digit postal code to an address. It returns
// (nil, nil) when the code is well-formed but unknown to the upstream.
func (c *Client) Lookup(ctx context.Context, cep string) (*Address, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.lookup(ctx, cep)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Address), nil
}

func (c *Client) lookup(ctx context.Context, cep string) (*Address, error) {
	endpoint := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, cep)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build postal code request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to look up postal code: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	var address Address
	if err := json.NewDecoder(resp.Body).Decode(&address); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// ViaCEP answers 200 with {"erro": true} for unknown codes
	if address.NotFound {
		return nil, nil
	}

	return &address, nil
}
