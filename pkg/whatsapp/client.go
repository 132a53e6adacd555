package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/jmoralesv/turnia-backend/pkg/errors"
)

const (
	defaultBaseURL            = "https://graph.facebook.com/v21.0"
	responseBodyLimit   int64 = 1024
	defaultHTTPTimeout        = 10 * time.Second
	messagingProductTag       = "whatsapp"
)

var (
	errTokenRequired   = errors.New("whatsapp access token is required")
	errPhoneIDRequired = errors.New("whatsapp phone number id is required")
)

// Client sends staff notifications through the WhatsApp Cloud API.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	accessToken   string
	phoneNumberID string
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

// WithBaseURL overrides the Graph API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the WhatsApp client for the given business phone number.
func NewClient(accessToken, phoneNumberID string, opts ...Option) (*Client, error) {
	trimmedToken := strings.TrimSpace(accessToken)
	if trimmedToken == "" {
		return nil, errTokenRequired
	}
	trimmedPhoneID := strings.TrimSpace(phoneNumberID)
	if trimmedPhoneID == "" {
		return nil, errPhoneIDRequired
	}

	client := &Client{
		accessToken:   trimmedToken,
		phoneNumberID: trimmedPhoneID,
		baseURL:       defaultBaseURL,
		httpClient:    &http.Client{Timeout: defaultHTTPTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

type textMessageRequest struct {
	MessagingProduct string      `json:"messaging_product"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Text             messageText `json:"text"`
}

type messageText struct {
	Body string `json:"body"`
}

// SendText delivers a plain text message to the given phone number and
// returns the provider message id.
func (c *Client) SendText(ctx context.Context, to, body string) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "whatsapp client not configured")
	}
	trimmedTo := strings.TrimSpace(to)
	if trimmedTo == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "recipient phone number is required")
	}
	if strings.TrimSpace(body) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}

	payload, err := json.Marshal(textMessageRequest{
		MessagingProduct: messagingProductTag,
		To:               trimmedTo,
		Type:             "text",
		Text:             messageText{Body: body},
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal whatsapp message")
	}

	url := fmt.Sprintf("%s/%s/messages", strings.TrimRight(c.baseURL, "/"), c.phoneNumberID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build whatsapp request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute whatsapp request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "whatsapp send failed")
	}

	var apiResp struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode whatsapp response")
	}
	if len(apiResp.Messages) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "whatsapp response missing message id")
	}

	return apiResp.Messages[0].ID, nil
}
