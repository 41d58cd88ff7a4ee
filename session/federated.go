package session

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// FederatedConfig describes the hosted-login endpoint used for social
// sign-in. The hosted UI runs the implicit flow and returns the tokens
// in the callback URL fragment.
type FederatedConfig struct {
	ClientID    string
	AuthURL     string
	RedirectURL string
	Scopes      []string
}

// LoginURL builds the hosted-login authorization URL for the implicit
// flow. state is echoed back in the callback fragment.
func (fc FederatedConfig) LoginURL(state string) string {
	conf := &oauth2.Config{
		ClientID:    fc.ClientID,
		RedirectURL: fc.RedirectURL,
		Scopes:      fc.Scopes,
		Endpoint:    oauth2.Endpoint{AuthURL: fc.AuthURL},
	}
	return conf.AuthCodeURL(state, oauth2.SetAuthURLParam("response_type", "token"))
}

// CallbackCredential is the token set parsed out of the hosted-login
// callback fragment.
type CallbackCredential struct {
	IDToken     string
	AccessToken string
	State       string
}

// TokenFromCallbackFragment parses the URL fragment the hosted UI
// appends to the redirect ("#id_token=...&access_token=...&state=...").
// A provider error in the fragment, or a fragment without an id token,
// is returned as an error carrying the provider's description when it
// sent one.
func TokenFromCallbackFragment(fragment string) (*CallbackCredential, error) {
	fragment = strings.TrimPrefix(fragment, "#")
	params, err := url.ParseQuery(fragment)
	if err != nil {
		return nil, errors.Wrap(err, "[TokenFromCallbackFragment] parse fragment")
	}

	if providerErr := params.Get("error"); providerErr != "" {
		description := params.Get("error_description")
		if description == "" {
			description = providerErr
		}
		return nil, errors.Errorf("[TokenFromCallbackFragment] provider error: %s", description)
	}

	idToken := params.Get("id_token")
	if idToken == "" {
		return nil, errors.New("[TokenFromCallbackFragment] no id token in callback")
	}

	return &CallbackCredential{
		IDToken:     idToken,
		AccessToken: params.Get("access_token"),
		State:       params.Get("state"),
	}, nil
}
