package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/jmoralesv/turnia-backend/pkg/errors"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(t *testing.T, fn roundTripFunc) *Client {
	t.Helper()

	client, err := NewClient("test-token", "10987654321",
		WithHTTPClient(&http.Client{Transport: fn}),
		WithBaseURL("https://graph.test/v21.0"))
	require.NoError(t, err)

	return client
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient("", "10987654321")
	assert.ErrorIs(t, err, errTokenRequired)

	_, err = NewClient("token", "  ")
	assert.ErrorIs(t, err, errPhoneIDRequired)
}

func TestSendText(t *testing.T) {
	var captured *http.Request
	var capturedBody textMessageRequest

	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req
		require.NoError(t, json.NewDecoder(req.Body).Decode(&capturedBody))
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(`{"messages":[{"id":"wamid.test123"}]}`)),
		}, nil
	})

	id, err := client.SendText(context.Background(), "+34600111222", "Nuevo pedido PED045: sábado 14:00")
	require.NoError(t, err)
	assert.Equal(t, "wamid.test123", id)

	require.NotNil(t, captured)
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "https://graph.test/v21.0/10987654321/messages", captured.URL.String())
	assert.Equal(t, "Bearer test-token", captured.Header.Get("Authorization"))
	assert.Equal(t, "whatsapp", capturedBody.MessagingProduct)
	assert.Equal(t, "+34600111222", capturedBody.To)
	assert.Equal(t, "text", capturedBody.Type)
	assert.Equal(t, "Nuevo pedido PED045: sábado 14:00", capturedBody.Text.Body)
}

func TestSendTextValidation(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})

	_, err := client.SendText(context.Background(), "", "hola")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = client.SendText(context.Background(), "+34600111222", "   ")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSendTextUpstreamFailure(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusUnauthorized,
			Body:       io.NopCloser(bytes.NewBufferString(`{"error":{"message":"bad token"}}`)),
		}, nil
	})

	_, err := client.SendText(context.Background(), "+34600111222", "hola")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
	assert.Contains(t, err.Error(), "401")
}
