package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/jmoralesv/turnia-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://routes.googleapis.com"
	routeFieldMask             = "routes.duration"
	requestBodyReadLimit int64 = 1024
)

var (
	errAPIKeyRequired = errors.New("google maps api key is required")
	errOriginRequired = errors.New("google maps origin address is required")
)

// Client wraps the Google Routes API used to estimate travel to venues.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	origin     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured Routes base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the travel-time client. The origin is the agency base
// address every route is computed from.
func NewClient(apiKey, origin string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}
	trimmedOrigin := strings.TrimSpace(origin)
	if trimmedOrigin == "" {
		return nil, errOriginRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		origin:     trimmedOrigin,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

type routeRequest struct {
	Origin      routeWaypoint `json:"origin"`
	Destination routeWaypoint `json:"destination"`
	TravelMode  string        `json:"travelMode"`
}

type routeWaypoint struct {
	Address string `json:"address"`
}

// EstimateTravelMinutes returns the driving time in whole minutes from the
// agency base to the given venue address, rounded up.
func (c *Client) EstimateTravelMinutes(ctx context.Context, destination string) (int, error) {
	if c == nil {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "google maps client not configured")
	}
	trimmed := strings.TrimSpace(destination)
	if trimmed == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "destination address is required")
	}

	url := c.buildURL("directions/v2:computeRoutes")
	payload, err := json.Marshal(routeRequest{
		Origin:      routeWaypoint{Address: c.origin},
		Destination: routeWaypoint{Address: trimmed},
		TravelMode:  "DRIVE",
	})
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal route request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build route request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", c.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", routeFieldMask)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute route request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "route request failed")
	}

	var apiResp struct {
		Routes []struct {
			Duration string `json:"duration"`
		} `json:"routes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode route response")
	}
	if len(apiResp.Routes) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "no route found for destination")
	}

	seconds, err := parseDurationSeconds(apiResp.Routes[0].Duration)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse route duration")
	}

	return int(math.Ceil(seconds / 60)), nil
}

// parseDurationSeconds reads Google's "1234s" duration encoding.
func parseDurationSeconds(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, errors.New("empty duration")
	}
	if !strings.HasSuffix(trimmed, "s") {
		return 0, fmt.Errorf("unexpected duration format %q", raw)
	}
	var seconds float64
	if _, err := fmt.Sscanf(trimmed, "%fs", &seconds); err != nil {
		return 0, fmt.Errorf("unexpected duration format %q: %w", raw, err)
	}
	return seconds, nil
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}
