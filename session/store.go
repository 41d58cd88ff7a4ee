// Package session owns the client-side authentication state: the
// persisted credential set, the decoded identity derived from it, and
// the LoggedOut/LoggedIn transitions around the remote auth
// collaborator. Everything else in the process reads session state
// through the Store's accessors so the expiry check stays in one place.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/retailcloud/storefront-client/token"
	"github.com/rs/zerolog"
)

var ExpiredTokenErr = errors.New("token expired")

// Notifier is the fire-and-forget email side-channel. Failures are the
// notifier's problem; the Store never inspects them.
type Notifier interface {
	UserRegistered(ctx context.Context, email, userID string) error
}

// Store is the process-wide session state machine over
// {LoggedOut, LoggedIn(identity)}. Construct exactly one per process
// and call RestoreFromStorage before first use.
type Store struct {
	api      AuthAPI
	storage  Storage
	notifier Notifier
	log      zerolog.Logger
	nowTime  func() time.Time

	lock     sync.Mutex
	identity *token.Identity
	loggedIn bool
}

// StoreOption modifies a Store instance.
type StoreOption func(*Store)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowTime = nowFunc
	}
}

// WithNotifier attaches the registration email side-channel.
func WithNotifier(n Notifier) StoreOption {
	return func(s *Store) {
		s.notifier = n
	}
}

// NewStore initializes a Store with its required dependencies.
func NewStore(api AuthAPI, storage Storage, log zerolog.Logger, options ...StoreOption) (*Store, error) {
	if api == nil {
		return nil, errors.New("[NewStore] auth API is required")
	}
	if storage == nil {
		return nil, errors.New("[NewStore] storage is required")
	}

	store := &Store{
		api:     api,
		storage: storage,
		log:     log,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(store)
	}
	return store, nil
}

// Login authenticates against the remote auth collaborator. On success
// the full credential set and decoded identity are persisted and the
// Store transitions to LoggedIn. On any failure the Store stays
// LoggedOut with nothing persisted; resolve the display text with
// httpapi.UserMessage(err, "login failed").
func (s *Store) Login(ctx context.Context, email, password string) (*token.Identity, error) {
	tokens, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, errors.Wrap(err, "[Store.Login]")
	}

	identity, err := token.Decode(tokens.IDToken)
	if err != nil {
		return nil, errors.Wrap(err, "[Store.Login] decode user info")
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.persistLocked(tokens.AccessToken, tokens.IDToken, tokens.RefreshToken, identity); err != nil {
		return nil, errors.Wrap(err, "[Store.Login]")
	}
	s.identity = identity
	s.loggedIn = true

	s.log.Info().Str("sub", identity.SubjectID).Msg("logged in")
	return identity, nil
}

// Register creates an account. Session state is never mutated; the
// caller decides whether to continue to confirmation or login. A
// welcome email is triggered fire-and-forget on success.
func (s *Store) Register(ctx context.Context, email, password string) (*RegistrationOutcome, error) {
	outcome, err := s.api.Register(ctx, email, password)
	if err != nil {
		return nil, errors.Wrap(err, "[Store.Register]")
	}

	if s.notifier != nil {
		go func(ctx context.Context) {
			_ = s.notifier.UserRegistered(ctx, email, outcome.UserSub)
		}(context.WithoutCancel(ctx))
	}
	return outcome, nil
}

// Confirm submits the emailed confirmation code for a new account.
func (s *Store) Confirm(ctx context.Context, email, code string) error {
	if err := s.api.Confirm(ctx, email, code); err != nil {
		return errors.Wrap(err, "[Store.Confirm]")
	}
	return nil
}

// Logout ends the session. The remote logout call is best effort: its
// failure is logged and the local session is torn down regardless, so
// a dead backend can never trap a user in a logged-in state.
func (s *Store) Logout(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("remote logout failed")
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	s.clearLocked()
	s.log.Info().Msg("logged out")
}

// RestoreFromStorage rebuilds session state from the persisted id
// token, invoked once at process start. Absent, undecodable or expired
// credentials clear the whole credential group and leave the Store
// LoggedOut, so stale storage can never produce a logged-in session.
// Calling it again with unchanged storage yields the same state.
func (s *Store) RestoreFromStorage() {
	s.lock.Lock()
	defer s.lock.Unlock()

	raw, ok := s.storage.Get(KeyIDToken)
	if !ok {
		s.clearLocked()
		return
	}

	identity := token.DecodeOrNil(raw)
	if identity == nil || identity.Expired(s.nowTime()) {
		s.clearLocked()
		return
	}

	s.identity = identity
	s.loggedIn = true
}

// SetTokenFromExternalCredential accepts an id token obtained outside
// the password flow (the federated login callback). The token passes
// the same decode and expiry checks as RestoreFromStorage before
// anything is persisted; it is mirrored to the access-token key since
// the federated flow returns no separate access credential here.
func (s *Store) SetTokenFromExternalCredential(idToken string) error {
	identity, err := token.Decode(idToken)
	if err != nil {
		return errors.Wrap(err, "[Store.SetTokenFromExternalCredential]")
	}
	if identity.Expired(s.nowTime()) {
		return errors.Wrap(ExpiredTokenErr, "[Store.SetTokenFromExternalCredential]")
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.persistLocked(idToken, idToken, "", identity); err != nil {
		return errors.Wrap(err, "[Store.SetTokenFromExternalCredential]")
	}
	s.identity = identity
	s.loggedIn = true

	s.log.Info().Str("sub", identity.SubjectID).Msg("logged in via external credential")
	return nil
}

// IsExpired evaluates the persisted id token against the clock. It is
// the guard UI routes consult before allowing authenticated pages.
func (s *Store) IsExpired() bool {
	raw, ok := s.storage.Get(KeyIDToken)
	if !ok {
		return true
	}
	identity := token.DecodeOrNil(raw)
	return identity == nil || identity.Expired(s.nowTime())
}

// IsLoggedIn reports the current state-machine position.
func (s *Store) IsLoggedIn() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.loggedIn
}

// CurrentUser returns the identity of the logged-in user, re-checking
// expiry at call time: an identity past its expiry reads as absent
// even before the next RestoreFromStorage or Logout.
func (s *Store) CurrentUser() *token.Identity {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.loggedIn || s.identity == nil || s.identity.Expired(s.nowTime()) {
		return nil
	}
	return s.identity
}

// AccessToken returns the persisted access token for API calls that
// need a bearer credential.
func (s *Store) AccessToken() string {
	value, _ := s.storage.Get(KeyAccessToken)
	return value
}

func (s *Store) persistLocked(accessToken, idToken, refreshToken string, identity *token.Identity) error {
	encoded, err := json.Marshal(identity.Claims)
	if err != nil {
		return errors.Wrap(err, "encode user info")
	}

	// The four keys form one credential group: written together here,
	// cleared together in clearLocked.
	pairs := []struct{ key, value string }{
		{KeyAccessToken, accessToken},
		{KeyIDToken, idToken},
		{KeyRefreshToken, refreshToken},
		{KeyUserInfo, string(encoded)},
	}
	for _, p := range pairs {
		if err := s.storage.Set(p.key, p.value); err != nil {
			return errors.Wrapf(err, "persist %s", p.key)
		}
	}
	return nil
}

func (s *Store) clearLocked() {
	for _, key := range credentialKeys {
		if err := s.storage.Delete(key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("clearing credential key failed")
		}
	}
	s.identity = nil
	s.loggedIn = false
}
