package cart_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/retailcloud/storefront-client/cart"
	"github.com/retailcloud/storefront-client/internal/httpapi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	userID string
	body   string
}

func TestClientEndpoints(t *testing.T) {
	var last recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		last = recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			userID: r.URL.Query().Get("userId"),
			body:   string(body),
		}
		if r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"items":[{"productId":"P1","qty":1,"price":3}]}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := cart.NewClient(httpapi.NewClient(server.URL, zerolog.Nop()))
	ctx := context.Background()

	raw, err := client.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, recordedRequest{method: http.MethodGet, path: "/cart", userID: "u1"}, last)
	require.True(t, json.Valid(raw))

	require.NoError(t, client.AddItem(ctx, "u1", cart.AddItemRequest{ProductID: "P1", Qty: 2, Price: 9.99}))
	require.Equal(t, http.MethodPost, last.method)
	require.Equal(t, "/cart/items", last.path)
	require.JSONEq(t, `{"productId":"P1","qty":2,"price":9.99}`, last.body)

	require.NoError(t, client.RemoveItem(ctx, "u1", "P1"))
	require.Equal(t, http.MethodDelete, last.method)
	require.Equal(t, "/cart/items/P1", last.path)

	require.NoError(t, client.Clear(ctx, "u1"))
	require.Equal(t, recordedRequest{method: http.MethodDelete, path: "/cart", userID: "u1"}, last)
}
