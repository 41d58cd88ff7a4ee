package token_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/retailcloud/storefront-client/token"
	"github.com/stretchr/testify/require"
)

// makeToken builds an unsigned three-segment credential around the
// given claims payload.
func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".signature"
}

func TestDecodeLiftsStandardClaims(t *testing.T) {
	raw := makeToken(t, map[string]any{
		"sub":            "u1",
		"email":          "a@x.com",
		"email_verified": true,
		"exp":            float64(4102444800),
	})

	identity, err := token.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, "u1", identity.SubjectID)
	require.Equal(t, "a@x.com", identity.Email)
	require.True(t, identity.EmailVerified)

	expiresAt, ok := identity.ExpiresAt()
	require.True(t, ok)
	require.Equal(t, int64(4102444800), expiresAt.Unix())
}

func TestDecodeFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "single segment", raw: "notatoken"},
		{name: "empty payload segment", raw: "header..sig"},
		{name: "payload not base64url", raw: "header.!!!.sig"},
		{name: "payload not json", raw: "header." + base64.RawURLEncoding.EncodeToString([]byte("plain text")) + ".sig"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			identity, err := token.Decode(tc.raw)
			require.ErrorIs(t, err, token.MalformedTokenErr)
			require.Nil(t, identity)
			require.Nil(t, token.DecodeOrNil(tc.raw))
		})
	}
}

func TestExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	future, err := token.Decode(makeToken(t, map[string]any{"exp": float64(now.Add(time.Hour).Unix())}))
	require.NoError(t, err)
	require.False(t, future.Expired(now))

	past, err := token.Decode(makeToken(t, map[string]any{"exp": float64(now.Add(-time.Hour).Unix())}))
	require.NoError(t, err)
	require.True(t, past.Expired(now))

	// Expiry exactly at the evaluation instant is not "strictly in the
	// future" and therefore expired.
	boundary, err := token.Decode(makeToken(t, map[string]any{"exp": float64(now.Unix())}))
	require.NoError(t, err)
	require.True(t, boundary.Expired(now))

	// A payload without exp decodes fine but never counts as live.
	noExp, err := token.Decode(makeToken(t, map[string]any{"sub": "u1"}))
	require.NoError(t, err)
	require.True(t, noExp.Expired(now))

	var absent *token.Identity
	require.True(t, absent.Expired(now))
}
