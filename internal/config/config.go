package config

type Config interface {
	EnvConfig
	OAuthConfig
	BackendConfig
	BotConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetTempDir() string
}

type OAuthConfig interface {
	GetIssuerURL() string
	GetClientID() string
	GetClientSecret() string
	GetRedirectURL() string
}

type BackendConfig interface {
	GetBackendURL() string
}

type BotConfig interface {
	GetAdminRole() string
	GetCopyFile() string
	GetNotifyInterval() string
	GetTransportPushURL() string
}

type mainConfig struct {
	EnvVars
	OAuth
	Backend
	Bot
}

func New() Config {
	return mainConfig{}
}
