package config

type Federated struct{}

var _ FederatedConfig = Federated{}

func (Federated) GetFederatedClientID() string {
	return GetEnv("FEDERATED_CLIENT_ID", "")
}

func (Federated) GetFederatedAuthURL() string {
	return GetEnv("FEDERATED_AUTH_URL", "")
}

func (Federated) GetFederatedRedirectURL() string {
	return GetEnv("FEDERATED_REDIRECT_URL", "")
}
