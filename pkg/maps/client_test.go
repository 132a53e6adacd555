package maps

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

	client, err := NewClient("test-key", "Calle Mayor 1, Madrid",
		WithHTTPClient(&http.Client{Transport: fn}),
		WithBaseURL("https://routes.test"))
	require.NoError(t, err)

	return client
}

func jsonResponse(t *testing.T, status int, body any) *http.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(raw)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient("", "Calle Mayor 1, Madrid")
	assert.ErrorIs(t, err, errAPIKeyRequired)

	_, err = NewClient("key", "   ")
	assert.ErrorIs(t, err, errOriginRequired)
}

func TestEstimateTravelMinutes(t *testing.T) {
	var captured *http.Request
	var capturedBody routeRequest

	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req
		require.NoError(t, json.NewDecoder(req.Body).Decode(&capturedBody))
		return jsonResponse(t, http.StatusOK, map[string]any{
			"routes": []map[string]any{{"duration": "1845s"}},
		}), nil
	})

	minutes, err := client.EstimateTravelMinutes(context.Background(), "Recinto Ferial, Valencia")
	require.NoError(t, err)

	// 1845s rounds up to 31 minutes.
	assert.Equal(t, 31, minutes)

	require.NotNil(t, captured)
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "https://routes.test/directions/v2:computeRoutes", captured.URL.String())
	assert.Equal(t, "test-key", captured.Header.Get("X-Goog-Api-Key"))
	assert.Equal(t, routeFieldMask, captured.Header.Get("X-Goog-FieldMask"))
	assert.Equal(t, "Calle Mayor 1, Madrid", capturedBody.Origin.Address)
	assert.Equal(t, "Recinto Ferial, Valencia", capturedBody.Destination.Address)
	assert.Equal(t, "DRIVE", capturedBody.TravelMode)
}

func TestEstimateTravelMinutesEmptyDestination(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})

	_, err := client.EstimateTravelMinutes(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestEstimateTravelMinutesUpstreamFailure(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusForbidden,
			Body:       io.NopCloser(bytes.NewBufferString(`{"error":"denied"}`)),
		}, nil
	})

	_, err := client.EstimateTravelMinutes(context.Background(), "Recinto Ferial, Valencia")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
	assert.Contains(t, err.Error(), "403")
}

func TestEstimateTravelMinutesNoRoutes(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(t, http.StatusOK, map[string]any{"routes": []any{}}), nil
	})

	_, err := client.EstimateTravelMinutes(context.Background(), "Recinto Ferial, Valencia")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}

func TestParseDurationSeconds(t *testing.T) {
	seconds, err := parseDurationSeconds("90s")
	require.NoError(t, err)
	assert.Equal(t, 90.0, seconds)

	seconds, err = parseDurationSeconds("12.5s")
	require.NoError(t, err)
	assert.Equal(t, 12.5, seconds)

	_, err = parseDurationSeconds("ninety")
	assert.Error(t, err)

	_, err = parseDurationSeconds("")
	assert.Error(t, err)
}
