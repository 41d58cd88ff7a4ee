package notify_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/retailcloud/storefront-client/internal/httpapi"
	"github.com/retailcloud/storefront-client/notify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNotificationEndpoints(t *testing.T) {
	var path, body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		path, body = r.URL.Path, string(raw)
		_, _ = w.Write([]byte(`{"message":"queued"}`))
	}))
	defer server.Close()

	client := notify.NewClient(httpapi.NewClient(server.URL, zerolog.Nop()), zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, client.OrderConfirmed(ctx, "a@x.com", "u1", "O-1", 19.98))
	require.Equal(t, "/notifications/order-confirmed", path)
	require.JSONEq(t, `{"email":"a@x.com","userId":"u1","orderId":"O-1","amount":19.98,"currency":"USD"}`, body)

	require.NoError(t, client.UserRegistered(ctx, "a@x.com", "u1"))
	require.Equal(t, "/notifications/user-registered", path)

	require.NoError(t, client.PaymentFailed(ctx, "a@x.com", "u1", "O-1"))
	require.Equal(t, "/notifications/payment-failed", path)
}

func TestSendFailureIsReturnedNotFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"smtp unavailable"}`, http.StatusBadGateway)
	}))
	defer server.Close()

	client := notify.NewClient(httpapi.NewClient(server.URL, zerolog.Nop()), zerolog.Nop())

	err := client.UserRegistered(context.Background(), "a@x.com", "u1")
	require.Error(t, err)
	require.Equal(t, "smtp unavailable", httpapi.UserMessage(err, "email failed"))
}
