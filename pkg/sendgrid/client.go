package sendgrid

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
	defaultBaseURL          = "https://api.sendgrid.com/v3"
	responseBodyLimit int64 = 1024
)

var (
	errAPIKeyRequired    = errors.New("sendgrid api key is required")
	errFromEmailRequired = errors.New("sendgrid from email is required")
)

// Client sends client-facing emails through the SendGrid v3 mail API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	fromEmail  string
	fromName   string
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

// WithBaseURL overrides the SendGrid API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the email client. fromName may be empty.
func NewClient(apiKey, fromEmail, fromName string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}
	trimmedFrom := strings.TrimSpace(fromEmail)
	if trimmedFrom == "" {
		return nil, errFromEmailRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		fromEmail:  trimmedFrom,
		fromName:   strings.TrimSpace(fromName),
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

type mailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type mailRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             mailAddress       `json:"from"`
	Subject          string            `json:"subject"`
	Content          []mailContent     `json:"content"`
}

type personalization struct {
	To []mailAddress `json:"to"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// SendEmail delivers a plain text email to a single recipient.
func (c *Client) SendEmail(ctx context.Context, toEmail, subject, body string) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "sendgrid client not configured")
	}
	trimmedTo := strings.TrimSpace(toEmail)
	if trimmedTo == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient email is required")
	}
	if strings.TrimSpace(subject) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email subject is required")
	}

	payload, err := json.Marshal(mailRequest{
		Personalizations: []personalization{{To: []mailAddress{{Email: trimmedTo}}}},
		From:             mailAddress{Email: c.fromEmail, Name: c.fromName},
		Subject:          subject,
		Content:          []mailContent{{Type: "text/plain", Value: body}},
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal email request")
	}

	url := strings.TrimRight(c.baseURL, "/") + "/mail/send"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build email request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute email request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "email send failed")
	}

	return nil
}
