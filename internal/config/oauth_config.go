package config

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetIssuerURL() string {
	return GetEnv("OIDC_ISSUER_URL", "http://localhost:8080/realms/procurebot")
}

func (OAuth) GetClientID() string {
	return GetEnv("OIDC_CLIENT_ID", "procurebot")
}

func (OAuth) GetClientSecret() string {
	return GetEnv("OIDC_CLIENT_SECRET", "")
}

func (OAuth) GetRedirectURL() string {
	return GetEnv("OIDC_REDIRECT_URL", "http://127.0.0.1:9111/auth/callback")
}
