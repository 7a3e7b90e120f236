package config

// DefaultScopes are the bot scopes requested when none are configured.
var DefaultScopes = []string{
	"app_mentions:read",
	"channels:history",
	"chat:write",
	"commands",
	"groups:history",
	"im:history",
	"reactions:read",
}

// DefaultListen are the classified types the conversation engine treats as
// conversation-continuing. ambient is left out on purpose.
var DefaultListen = []string{
	"direct_message",
	"direct_mention",
	"mention",
	"interactive_message_callback",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 3000,
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			DSN:    "data/botkit.db",
		},
		Slack: SlackConfig{
			Scopes:          append([]string(nil), DefaultScopes...),
			APIRoot:         "https://slack.com",
			LoginSuccessURL: "/",
		},
		Engine: EngineConfig{
			Listen: append([]string(nil), DefaultListen...),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
