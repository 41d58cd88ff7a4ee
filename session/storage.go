package session

// Credential storage keys. The four keys are always written and cleared
// together by the Store; nothing else in the process touches them.
const (
	KeyAccessToken  = "accessToken"
	KeyIDToken      = "idToken"
	KeyRefreshToken = "refreshToken"
	KeyUserInfo     = "userInfo"
)

var credentialKeys = []string{KeyAccessToken, KeyIDToken, KeyRefreshToken, KeyUserInfo}

// Storage is the persisted key-value area holding session credentials.
// A value that cannot be read reports absent; the Store treats absent
// and corrupt the same way, so implementations never need to surface
// read errors.
type Storage interface {
	// Get retrieves a value, reporting whether it was present.
	Get(key string) (string, bool)

	// Set stores a value.
	Set(key, value string) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(key string) error
}
