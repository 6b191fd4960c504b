package config

type Bot struct{}

var _ BotConfig = Bot{}

func (Bot) GetAdminRole() string {
	return GetEnv("ADMIN_ROLE", "tg_admin")
}

func (Bot) GetCopyFile() string {
	return GetEnv("COPY_FILE", "")
}

func (Bot) GetNotifyInterval() string {
	return GetEnv("NOTIFY_INTERVAL", "1h")
}

func (Bot) GetTransportPushURL() string {
	return GetEnv("TRANSPORT_PUSH_URL", "")
}
