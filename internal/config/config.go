package config

import "time"

// Config exposes the runtime settings of the storefront client.
type Config interface {
	EnvConfig
	FederatedConfig
}

type EnvConfig interface {
	GetAPIBaseURL() string
	GetAppName() string
	GetDataFolder() string
	GetDemoUserID() string
	GetFallbackEmail() string
	GetRequestTimeout() time.Duration
}

// FederatedConfig describes the hosted social-login endpoint.
type FederatedConfig interface {
	GetFederatedClientID() string
	GetFederatedAuthURL() string
	GetFederatedRedirectURL() string
}

type mainConfig struct {
	EnvVars
	Federated
}

func New() Config {
	return mainConfig{}
}
