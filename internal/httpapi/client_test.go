package httpapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/pkg/errors"
	"github.com/retailcloud/storefront-client/internal/httpapi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestGetDecodesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/things", r.URL.Path)
		require.Equal(t, "u1", r.URL.Query().Get("userId"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"widget"}`))
	}))
	defer server.Close()

	client := httpapi.NewClient(server.URL, zerolog.Nop())

	var out struct {
		Name string `json:"name"`
	}
	err := client.Get(context.Background(), "/things", url.Values{"userId": []string{"u1"}}, &out)
	require.NoError(t, err)
	require.Equal(t, "widget", out.Name)
}

func TestErrorPayloadBecomesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"cart is empty","error":"EMPTY_CART","details":"add an item first"}`))
	}))
	defer server.Close()

	client := httpapi.NewClient(server.URL, zerolog.Nop())

	err := client.Post(context.Background(), "/orders/checkout", nil, struct{}{}, nil)
	require.Error(t, err)

	var apiErr *httpapi.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusConflict, apiErr.Status)
	require.Equal(t, "cart is empty", apiErr.Message)
	require.Equal(t, "EMPTY_CART", apiErr.Code)
}

func TestErrorWithoutPayloadStillFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := httpapi.NewClient(server.URL, zerolog.Nop())

	err := client.Get(context.Background(), "/cart", nil, nil)
	var apiErr *httpapi.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusInternalServerError, apiErr.Status)
	require.Empty(t, apiErr.Message)
}

func TestUserMessagePreferenceOrder(t *testing.T) {
	// Server-provided message wins.
	withServerMsg := &httpapi.APIError{Status: 400, Message: "bad credentials"}
	require.Equal(t, "bad credentials", httpapi.UserMessage(withServerMsg, "login failed"))

	// Then the transport error text.
	transport := errors.New("dial tcp: connection refused")
	require.Equal(t, "dial tcp: connection refused", httpapi.UserMessage(transport, "login failed"))

	// Wrapped API errors are still found in the chain.
	wrapped := errors.Wrap(withServerMsg, "[Store.Login]")
	require.Equal(t, "bad credentials", httpapi.UserMessage(wrapped, "login failed"))

	require.Empty(t, httpapi.UserMessage(nil, "login failed"))
}

func TestSchemeDefaultsToHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	bare := server.Listener.Addr().String()
	client := httpapi.NewClient(bare, zerolog.Nop())
	require.NoError(t, client.Get(context.Background(), "/", nil, nil))
}
