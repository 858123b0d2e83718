package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.github.com"

// Client is a thin HTTP client for the GitHub REST API. It handles Bearer
// token authentication, JSON marshaling, and automatic retry with
// exponential backoff on HTTP 429.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a new GitHub HTTP client authenticated with the given
// personal access token.
func NewClient(token string) *Client {
	return NewClientWithBaseURL(defaultBaseURL, token)
}

// NewClientWithBaseURL creates a client against a non-default API root,
// e.g. a GitHub Enterprise instance or a test server.
func NewClientWithBaseURL(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 3,
	}
}

// Get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) Get(
	ctx context.Context,
	path string,
	result interface{},
) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// Patch performs an HTTP PATCH request with an optional JSON body.
func (c *Client) Patch(
	ctx context.Context,
	path string,
	body interface{},
	result interface{},
) error {
	return c.do(ctx, http.MethodPatch, path, body, result)
}

// Put performs an HTTP PUT request with an optional JSON body.
func (c *Client) Put(
	ctx context.Context,
	path string,
	body interface{},
	result interface{},
) error {
	return c.do(ctx, http.MethodPut, path, body, result)
}

// do is the core HTTP method that builds the request, handles auth,
// rate limiting with exponential backoff, and JSON (de)serialization.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Rebuild the body reader on retries since it was consumed.
		if attempt > 0 && body != nil {
			data, _ := json.Marshal(body)
			bodyReader = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(
			ctx, method, url, bodyReader,
		)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/vnd.github+json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &TransientError{
				Message: fmt.Sprintf(
					"executing request %s %s", method, path,
				),
				Cause: err,
			}
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("reading response body: %w", readErr)
		}

		logPollHints(resp, method, path)

		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := retryAfterDuration(resp, attempt)
			lastErr = fmt.Errorf(
				"rate limited (429) on %s %s", method, path,
			)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		if resp.StatusCode == http.StatusUnauthorized {
			return &AuthError{
				Message: "token invalid or expired; " +
					"reconfigure your personal access token",
			}
		}

		if resp.StatusCode == http.StatusForbidden {
			return &PermissionError{
				Message: "token lacks the notifications scope " +
					"or access is forbidden: " + apiMessage(respBody),
			}
		}

		if resp.StatusCode >= 500 {
			return &TransientError{
				Status: resp.StatusCode,
				Message: fmt.Sprintf(
					"%s %s: %s", method, path, apiMessage(respBody),
				),
			}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &RequestError{
				Status: resp.StatusCode,
				Message: fmt.Sprintf(
					"%s %s: %s", method, path, apiMessage(respBody),
				),
			}
		}

		// No content to parse (e.g. 205 after PUT /notifications).
		if result == nil ||
			resp.StatusCode == http.StatusNoContent ||
			resp.StatusCode == http.StatusResetContent ||
			len(respBody) == 0 {
			return nil
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf(
				"unmarshaling response from %s %s: %w",
				method, path, err,
			)
		}

		return nil
	}

	return fmt.Errorf(
		"max retries (%d) exceeded: %w", c.maxRetries, lastErr,
	)
}

// apiMessage extracts the "message" field from a GitHub error payload,
// falling back to the raw body.
func apiMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}

// logPollHints records rate-limit and poll-interval hints from response
// headers. They are informational only and never change fetch cadence.
func logPollHints(resp *http.Response, method, path string) {
	if interval := resp.Header.Get("X-Poll-Interval"); interval != "" {
		log.Printf(
			"github: %s %s suggests poll interval %ss",
			method, path, interval,
		)
	}
	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining == "0" {
		log.Printf(
			"github: rate limit exhausted on %s %s (resets at %s)",
			method, path, resp.Header.Get("X-RateLimit-Reset"),
		)
	}
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration. Falls back to exponential backoff if the header is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	// Exponential backoff: 1s, 2s, 4s, ...
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}
