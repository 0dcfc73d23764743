// Package capacity is the HTTP client for the capacity microservice.
//
// Every call carries the correlation id in the X-Message-Id header. Any
// non-2xx response, 4xx or 5xx alike, is collapsed into a single
// capacity-service technical error: callers cannot and should not
// distinguish a bad request from a downed service.
package capacity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/onclass/bootcamp-api/internal/domain"
	"github.com/onclass/bootcamp-api/internal/errs"
	"github.com/onclass/bootcamp-api/internal/pkg/httpretry"
	"github.com/onclass/bootcamp-api/internal/pkg/logger"
)

const serviceName = "capacity-service"

const headerMessageID = "X-Message-Id"

// Config holds the client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// Client talks to the capacity service.
type Client struct {
	baseURL    string
	httpClient httpretry.HTTPDoer
}

// NewClient creates a capacity service client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: httpretry.New(&http.Client{Timeout: timeout}, cfg.MaxRetries),
	}
}

// SetHTTPClient sets a custom HTTP client (useful for testing).
func (c *Client) SetHTTPClient(client httpretry.HTTPDoer) {
	c.httpClient = client
}

type idsRequest struct {
	IDs []int64 `json:"ids"`
}

type existsResponse struct {
	Exists map[string]bool `json:"exists"`
}

// CheckExist returns, for every requested capacity id, whether it exists.
func (c *Client) CheckExist(ctx context.Context, ids []int64, messageID string) (map[int64]bool, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/capacity/check-exists", idsRequest{IDs: ids}, messageID)
	if err != nil {
		return nil, err
	}

	var resp existsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errs.NewTechnical(serviceName, fmt.Errorf("decode check-exists response: %w", err))
	}

	out := make(map[int64]bool, len(resp.Exists))
	for k, v := range resp.Exists {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, errs.NewTechnical(serviceName, fmt.Errorf("non-numeric capacity id %q in response", k))
		}
		out[id] = v
	}
	return out, nil
}

// GetByIDs returns capacity summaries without their technologies.
func (c *Client) GetByIDs(ctx context.Context, ids []int64, messageID string) ([]domain.CapacitySummary, error) {
	return c.fetchSummaries(ctx, "/capacity/by-ids", ids, messageID)
}

// GetWithTechnologies returns capacity summaries including the technologies
// of each capacity.
func (c *Client) GetWithTechnologies(ctx context.Context, ids []int64, messageID string) ([]domain.CapacitySummary, error) {
	return c.fetchSummaries(ctx, "/capacity/with-technologies", ids, messageID)
}

// DeleteByIDs asks the capacity service to delete the given capacities.
func (c *Client) DeleteByIDs(ctx context.Context, ids []int64, messageID string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/capacity/delete-by-ids", idsRequest{IDs: ids}, messageID)
	return err
}

func (c *Client) fetchSummaries(ctx context.Context, endpoint string, ids []int64, messageID string) ([]domain.CapacitySummary, error) {
	body, err := c.doRequest(ctx, http.MethodPost, endpoint, idsRequest{IDs: ids}, messageID)
	if err != nil {
		return nil, err
	}

	var summaries []domain.CapacitySummary
	if err := json.Unmarshal(body, &summaries); err != nil {
		return nil, errs.NewTechnical(serviceName, fmt.Errorf("decode %s response: %w", endpoint, err))
	}
	return summaries, nil
}

// doRequest performs one call against the capacity service and returns the
// raw response body. Every failure path comes back as a technical error.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, payload any, messageID string) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, errs.NewTechnical(serviceName, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, errs.NewTechnical(serviceName, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerMessageID, messageID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.NewTechnical(serviceName, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.NewTechnical(serviceName, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Error("capacity service call failed",
			"message_id", messageID, "endpoint", endpoint, "status", resp.StatusCode)
		return nil, errs.NewTechnical(serviceName,
			fmt.Errorf("%s %s: status %d", method, endpoint, resp.StatusCode))
	}
	return respBody, nil
}
