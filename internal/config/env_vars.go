package config

import (
	"os"
	"time"
)

const (
	apiBaseURLVar = "API_BASE_URL"
	appNameVar    = "APP_NAME"
	folderEnvVar  = "FOLDER"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "http://localhost:3000/dev")
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "RetailCloud")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

// GetDemoUserID is the user identifier sent on cart and order calls
// when no dedicated per-user id is in play.
func (EnvVars) GetDemoUserID() string {
	return GetEnv("DEMO_USER_ID", "demo-user")
}

// GetFallbackEmail is the address used for checkout when no identity is
// present (guest flow).
func (EnvVars) GetFallbackEmail() string {
	return GetEnv("FALLBACK_EMAIL", "orders@retailcloud.example.com")
}

func (EnvVars) GetRequestTimeout() time.Duration {
	if raw := os.Getenv("REQUEST_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			return d
		}
	}
	return 10 * time.Second
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
