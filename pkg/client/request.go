package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// bodyPreviewLimit bounds the response body carried inside an APIError so
// huge HTML error pages never end up in logs verbatim.
const bodyPreviewLimit = 1024

// do builds a request through go-jira, executes it on the rate-limited HTTP
// client, and decodes the JSON response into target. A nil target or an
// empty 2xx body skips decoding. Non-JSON 2xx bodies are accepted only when
// target is a *string.
func (c *JIRAClient) do(ctx context.Context, op, method, endpoint string, body, target interface{}) error {
	req, err := c.jira.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return &APIError{
			Type:     ErrorTypeInvalidInput,
			Message:  "failed to build request",
			Endpoint: endpoint,
			Err:      err,
		}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.metrics.ObserveAPIRequest(op, method, 0, duration)
		c.log.V(1).Info("Jira API request failed", "operation", op, "method", method, "error", err.Error())
		return NewConnectionError(endpoint, err)
	}
	defer resp.Body.Close()

	c.metrics.ObserveAPIRequest(op, method, resp.StatusCode, duration)
	c.log.V(1).Info("Jira API request completed",
		"operation", op,
		"method", method,
		"status", resp.StatusCode,
		"duration", duration.String())

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewConnectionError(endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Type:       typeForStatus(resp.StatusCode),
			Message:    messageForStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Body:       bodyPreview(data),
		}
	}

	if target == nil || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		// Some agile endpoints answer with plain text; let callers that
		// asked for raw text have it instead of failing the decode.
		if raw, ok := target.(*string); ok {
			*raw = string(data)
			return nil
		}
		return &APIError{
			Type:       ErrorTypeAPI,
			Message:    "failed to decode response",
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Body:       bodyPreview(data),
			Err:        err,
		}
	}
	return nil
}

// messageForStatus yields the operator-facing message for a failed request.
func messageForStatus(status int) string {
	switch {
	case status == 401:
		return "authentication failed - check Jira credentials"
	case status == 403:
		return "access denied - insufficient permissions"
	case status == 404:
		return "resource not found"
	case status == 429:
		return "rate limit exceeded - request was throttled by Jira"
	case status >= 500:
		return fmt.Sprintf("Jira server error (HTTP %d)", status)
	default:
		return fmt.Sprintf("HTTP %d - %s", status, http.StatusText(status))
	}
}

func bodyPreview(data []byte) string {
	if len(data) > bodyPreviewLimit {
		data = data[:bodyPreviewLimit]
	}
	return string(data)
}
