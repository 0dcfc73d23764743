// Package userdir is the HTTP client for the user directory microservice.
// It follows the same error-collapsing policy as the capacity client: any
// non-2xx response becomes a single user-service technical error.
package userdir

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/onclass/bootcamp-api/internal/errs"
	"github.com/onclass/bootcamp-api/internal/pkg/httpretry"
	"github.com/onclass/bootcamp-api/internal/pkg/logger"
)

const serviceName = "user-service"

const headerMessageID = "X-Message-Id"

// Config holds the client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// Client talks to the user service.
type Client struct {
	baseURL    string
	httpClient httpretry.HTTPDoer
}

// NewClient creates a user service client.
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

// CheckExist returns, for every requested user id, whether it exists.
func (c *Client) CheckExist(ctx context.Context, ids []int64, messageID string) (map[int64]bool, error) {
	jsonBody, err := json.Marshal(idsRequest{IDs: ids})
	if err != nil {
		return nil, errs.NewTechnical(serviceName, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/users/check-exists", bytes.NewReader(jsonBody))
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
		logger.Error("user service call failed",
			"message_id", messageID, "status", resp.StatusCode)
		return nil, errs.NewTechnical(serviceName, fmt.Errorf("check-exists: status %d", resp.StatusCode))
	}

	var parsed existsResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, errs.NewTechnical(serviceName, fmt.Errorf("decode response: %w", err))
	}

	out := make(map[int64]bool, len(parsed.Exists))
	for k, v := range parsed.Exists {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, errs.NewTechnical(serviceName, fmt.Errorf("non-numeric user id %q in response", k))
		}
		out[id] = v
	}
	return out, nil
}
