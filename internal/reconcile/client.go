package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// UpdateStatusesPath is the admin route that runs a reconciliation pass.
const UpdateStatusesPath = "/admin/events/update-statuses"

// maxBody bounds how much of a response is read.
const maxBody = 64 << 10

// Client asks a remote API to reconcile event statuses.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ReconcileAll POSTs to the update-statuses endpoint. Transport errors,
// non-2xx responses and undecodable bodies become an unsuccessful Result.
// An empty 2xx body counts as success.
func (c *Client) ReconcileAll(ctx context.Context) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+UpdateStatusesPath, nil)
	if err != nil {
		return Result{Message: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return Result{Message: fmt.Sprintf("read response: %v", err)}
	}

	var envelope *Result
	if len(strings.TrimSpace(string(body))) > 0 {
		var r Result
		if err := json.Unmarshal(body, &r); err == nil {
			envelope = &r
		} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return Result{Message: fmt.Sprintf("decode response: %v", err)}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Sprintf("server returned status %d", resp.StatusCode)
		if envelope != nil && envelope.Message != "" {
			msg += ": " + envelope.Message
		}
		return Result{Message: msg}
	}

	if envelope == nil {
		return Result{Success: true, Message: "statuses updated"}
	}

	return *envelope
}
