package config

// DatabaseDriver selects the credential store backend.
type DatabaseDriver string

const (
	DriverSQLite   DatabaseDriver = "sqlite"
	DriverPostgres DatabaseDriver = "postgres"
)

// Config is the top-level botkit-slack configuration, corresponding to botkit.yml.
type Config struct {
	Server   ServerConfig   `yaml:"server" koanf:"server"`
	Database DatabaseConfig `yaml:"database" koanf:"database"`
	Slack    SlackConfig    `yaml:"slack" koanf:"slack"`
	Engine   EngineConfig   `yaml:"engine" koanf:"engine"`
	Log      LogConfig      `yaml:"log" koanf:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port" validate:"gte=0,lte=65535"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// DatabaseConfig points at the credential store.
type DatabaseConfig struct {
	Driver DatabaseDriver `yaml:"driver" koanf:"driver" validate:"oneof=sqlite postgres"`
	DSN    string         `yaml:"dsn" koanf:"dsn" validate:"required"`
}

// SlackConfig holds the Slack app credentials and OAuth settings.
type SlackConfig struct {
	ClientID          string   `yaml:"client_id" koanf:"client_id"`
	ClientSecret      string   `yaml:"client_secret" koanf:"client_secret"`
	Scopes            []string `yaml:"scopes" koanf:"scopes" validate:"dive,required"`
	RedirectURI       string   `yaml:"redirect_uri" koanf:"redirect_uri" validate:"omitempty,url"`
	APIRoot           string   `yaml:"api_root" koanf:"api_root" validate:"required,url"`
	LoginSuccessURL   string   `yaml:"login_success_url" koanf:"login_success_url" validate:"required"`
	VerificationToken string   `yaml:"verification_token" koanf:"verification_token"`
	SigningSecret     string   `yaml:"signing_secret" koanf:"signing_secret"`
}

// EngineConfig controls which classified message types reach the
// conversation engine.
type EngineConfig struct {
	Listen []string `yaml:"listen" koanf:"listen" validate:"dive,required"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level" koanf:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development" koanf:"development"`
}
