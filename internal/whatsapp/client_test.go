package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string, maxRetries int) *Client {
	t.Helper()
	c, err := NewClient(ClientConfig{
		AccessToken:   "test-token",
		PhoneNumberID: "109876543210000",
		BaseURL:       baseURL,
		Version:       "v19.0",
		MaxRetries:    maxRetries,
		Backoff:       time.Millisecond,
	})
	require.NoError(t, err)
	return c
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(ClientConfig{PhoneNumberID: "123"})
	assert.Error(t, err)

	_, err = NewClient(ClientConfig{AccessToken: "tok"})
	assert.Error(t, err)
}

func TestSendTextSuccess(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody SendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"messages": [{"id": "wamid.OUT"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 0)
	resp, err := c.SendText(context.Background(), "5511999990000", "Olá!")
	require.NoError(t, err)

	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "wamid.OUT", resp.Messages[0].ID)
	assert.Equal(t, "/v19.0/109876543210000/messages", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "whatsapp", gotBody.MessagingProduct)
	assert.Equal(t, "text", gotBody.Type)
	require.NotNil(t, gotBody.Text)
	assert.Equal(t, "Olá!", gotBody.Text.Body)
}

func TestSendTextRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"messages": [{"id": "wamid.OUT"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 3)
	_, err := c.SendText(context.Background(), "5511999990000", "oi")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSendTextDoesNotRetryPermanentFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "Invalid parameter", "type": "OAuthException", "code": 100}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 3)
	_, err := c.SendText(context.Background(), "5511999990000", "oi")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.NotNil(t, apiErr.Err)
	assert.Equal(t, 100, apiErr.Err.Code)
}

func TestSendTextExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 2)
	_, err := c.SendText(context.Background(), "5511999990000", "oi")
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}
