package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/okian/marquee/internal/domain/dashboard"
)

// HTTPClient is one simulated browser: an http.Client with its own cookie jar,
// so every client gets its own dashboard session.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new browser client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		baseURL: baseURL,
	}, nil
}

// Get performs a GET request against path.
func (c *HTTPClient) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body against path.
func (c *HTTPClient) Post(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// fetchView loads the session's current view.
func (c *HTTPClient) fetchView(ctx context.Context) (*dashboard.ViewModel, error) {
	resp, err := c.Get(ctx, "/api/view")
	if err != nil {
		return nil, err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body)
	}
	var vm dashboard.ViewModel
	if err := json.Unmarshal(body, &vm); err != nil {
		return nil, fmt.Errorf("failed to decode view: %w", err)
	}
	return &vm, nil
}

// submitEvent posts e and decodes the re-rendered view on success.
func (c *HTTPClient) submitEvent(ctx context.Context, e Event) (int, *dashboard.ViewModel, error) {
	resp, err := c.Post(ctx, "/api/events", e)
	if err != nil {
		return 0, nil, err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil, apiError(resp.StatusCode, body)
	}
	var vm dashboard.ViewModel
	if err := json.Unmarshal(body, &vm); err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to decode view: %w", err)
	}
	return resp.StatusCode, &vm, nil
}

// apiError turns a JSON error body into an error.
func apiError(status int, body []byte) error {
	var e ErrorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Code != "" {
		return fmt.Errorf("status %d: %s: %s", status, e.Code, e.Message)
	}
	return fmt.Errorf("status %d", status)
}
