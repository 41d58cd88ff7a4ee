// Package token decodes the storefront session credential. The id token
// is a standard three-segment JWT issued by the auth backend; the client
// only needs the claims payload, so decoding is local and unverified —
// signature validation is the backend's responsibility and no network
// call is ever made here.
package token

import (
	"encoding/json"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

var MalformedTokenErr = errors.New("malformed token")

// Identity is the decoded claims payload of an id token. It is only
// ever derived from a credential, never constructed by hand.
type Identity struct {
	SubjectID     string
	Email         string
	EmailVerified bool
	Claims        jwtlib.MapClaims // full claims map, including exp
}

// Decode extracts the Identity from a raw credential. It fails with
// MalformedTokenErr when the token has fewer than two dot-delimited
// segments, when the payload segment is not valid base64url, or when
// the decoded payload is not a JSON object.
func Decode(raw string) (*Identity, error) {
	segments := strings.Split(raw, ".")
	if len(segments) < 2 || segments[1] == "" {
		return nil, MalformedTokenErr
	}

	payload, err := jwtlib.NewParser().DecodeSegment(segments[1])
	if err != nil {
		return nil, errors.Wrap(MalformedTokenErr, err.Error())
	}

	claims := jwtlib.MapClaims{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, errors.Wrap(MalformedTokenErr, err.Error())
	}

	identity := &Identity{Claims: claims}
	identity.SubjectID, _ = claims["sub"].(string)
	identity.Email, _ = claims["email"].(string)
	identity.EmailVerified, _ = claims["email_verified"].(bool)

	return identity, nil
}

// DecodeOrNil collapses decode failures to an absent identity for
// callers that treat a bad credential the same as no credential.
func DecodeOrNil(raw string) *Identity {
	identity, err := Decode(raw)
	if err != nil {
		return nil
	}
	return identity
}

// ExpiresAt returns the exp claim. ok is false when the claim is
// missing or not a timestamp.
func (i *Identity) ExpiresAt() (time.Time, bool) {
	if i == nil {
		return time.Time{}, false
	}
	exp, err := i.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether the identity is unusable at the given time.
// A credential is only considered live when it carries an expiry
// strictly in the future; a missing exp claim counts as expired.
func (i *Identity) Expired(now time.Time) bool {
	expiresAt, ok := i.ExpiresAt()
	if !ok {
		return true
	}
	return !expiresAt.After(now)
}
