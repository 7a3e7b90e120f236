package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides. A double underscore
// separates nested keys: BOTKIT_SLACK__CLIENT_ID -> slack.client_id.
const EnvPrefix = "BOTKIT_"

// ErrConfigurationMissing is reported when the Slack client id or secret is
// absent. It disables the OAuth routes but is never fatal.
var ErrConfigurationMissing = errors.New("slack is not configured: client_id and client_secret are required")

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (BOTKIT_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that the configuration contains valid values. Missing
// Slack app credentials are not a validation failure; see CheckOAuth.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s: failed %q check", strings.ToLower(fe.Namespace()), fe.Tag())
		}
		return fmt.Errorf("validating config: %w", err)
	}
	return nil
}

// CheckOAuth reports ErrConfigurationMissing when the app credentials
// needed for the OAuth handshake are absent.
func (s SlackConfig) CheckOAuth() error {
	if strings.TrimSpace(s.ClientID) == "" || strings.TrimSpace(s.ClientSecret) == "" {
		return ErrConfigurationMissing
	}
	return nil
}
