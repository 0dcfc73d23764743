// Package metrics reports bootcamp activity to the metrics microservice on
// a fire-and-forget basis. A report never delays or fails the request that
// triggered it; the outcome is only logged.
package metrics

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/onclass/bootcamp-api/internal/pkg/logger"
)

const headerMessageID = "X-Message-Id"

// Config holds the reporter settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Reporter posts bootcamp reports to the metrics service.
type Reporter struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewReporter creates a metrics reporter.
func NewReporter(cfg Config) *Reporter {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Reporter{
		baseURL:    cfg.BaseURL,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type reportRequest struct {
	BootcampID int64 `json:"bootcampId"`
}

// ReportBootcampAsync records activity for the given bootcamp in a detached
// goroutine. The request that triggered it may already be finished by the
// time the report lands; it deliberately does not share that request's
// context or its cancellation.
func (r *Reporter) ReportBootcampAsync(bootcampID int64, messageID, authToken string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		body, err := json.Marshal(reportRequest{BootcampID: bootcampID})
		if err != nil {
			logger.Error("metrics report marshal failed", "message_id", messageID, "error", err)
			return
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			r.baseURL+"/metrics/bootcamp/report", bytes.NewReader(body))
		if err != nil {
			logger.Error("metrics report request failed", "message_id", messageID, "error", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(headerMessageID, messageID)
		if authToken != "" {
			req.Header.Set("Authorization", authToken)
		}

		resp, err := r.httpClient.Do(req)
		if err != nil {
			logger.Warn("metrics report not delivered",
				"message_id", messageID, "bootcamp_id", bootcampID, "error", err)
			return
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			logger.Warn("metrics report rejected",
				"message_id", messageID, "bootcamp_id", bootcampID, "status", resp.StatusCode)
			return
		}
		logger.Debug("metrics report delivered",
			"message_id", messageID, "bootcamp_id", bootcampID)
	}()
}
