package ghl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	httpclient "survey-subaccounts/internal/common/http"
	"survey-subaccounts/internal/common/metrics"
)

const (
	DefaultAPIVersion = "2021-07-28"

	// unknownID is reported when the CRM accepts a location but omits its id.
	unknownID = "N/A"
)

// APIError is returned when the CRM answers with a non-success status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Sub-account creation failed: %d - %s", e.StatusCode, e.Body)
}

// RequestError is returned when the CRM could not be reached at all.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("Error creating sub-account: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

type ClientConfig struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	Timeout    time.Duration
}

type Client struct {
	baseURL    string
	httpClient *httpclient.Client
}

func NewClient(cfg ClientConfig) *Client {
	version := cfg.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	hc := httpclient.NewClient(timeout).
		WithHeader("Authorization", "Bearer "+cfg.APIKey).
		WithHeader("Version", version)

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: hc,
	}
}

// CreateLocation creates a sub-account and returns its id.
func (c *Client) CreateLocation(ctx context.Context, req *LocationRequest) (string, error) {
	url := fmt.Sprintf("%s/locations/", c.baseURL)

	start := time.Now()
	resp, err := c.httpClient.DoJSON(ctx, http.MethodPost, url, req)
	metrics.CRMRequestDuration.WithLabelValues("create_location").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CRMRequests.WithLabelValues("create_location", "error").Inc()
		return "", &RequestError{Err: err}
	}
	metrics.CRMRequests.WithLabelValues("create_location", fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	var created Location
	if err := json.Unmarshal(resp.Body, &created); err != nil {
		return "", &RequestError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if created.ID == "" {
		return unknownID, nil
	}

	return created.ID, nil
}

// ListLocations is a cheap authenticated read used to verify credentials.
func (c *Client) ListLocations(ctx context.Context) ([]Location, error) {
	url := fmt.Sprintf("%s/locations/", c.baseURL)

	resp, err := c.httpClient.DoJSON(ctx, http.MethodGet, url, nil)
	if err != nil {
		metrics.CRMRequests.WithLabelValues("list_locations", "error").Inc()
		return nil, &RequestError{Err: err}
	}
	metrics.CRMRequests.WithLabelValues("list_locations", fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	var result listLocationsResponse
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Locations, nil
}

// VerifyCredentials checks the API key by listing locations.
func (c *Client) VerifyCredentials(ctx context.Context) error {
	if _, err := c.ListLocations(ctx); err != nil {
		return fmt.Errorf("ghl credential check failed: %w", err)
	}
	return nil
}
