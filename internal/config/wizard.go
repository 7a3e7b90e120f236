package config

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard for the Slack app and
// saves the result to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to botkit-slack! Let's connect your Slack app.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. App credentials.
	clientIDPrompt := promptui.Prompt{
		Label: "Slack client ID",
	}
	clientID, err := clientIDPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("client id: %w", err)
	}

	secretPrompt := promptui.Prompt{
		Label: "Slack client secret",
		Mask:  '*',
	}
	clientSecret, err := secretPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("client secret: %w", err)
	}

	signingPrompt := promptui.Prompt{
		Label: "Signing secret (leave blank to skip request signing checks)",
		Mask:  '*',
	}
	signingSecret, err := signingPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("signing secret: %w", err)
	}

	// 2. Scopes.
	scopesPrompt := promptui.Prompt{
		Label:   "Bot scopes (comma-separated)",
		Default: strings.Join(DefaultScopes, ","),
	}
	scopesStr, err := scopesPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("scopes: %w", err)
	}

	redirectPrompt := promptui.Prompt{
		Label:   "OAuth redirect URI (optional)",
		Default: "",
	}
	redirectURI, err := redirectPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("redirect uri: %w", err)
	}

	// 3. Credential store.
	driverPrompt := promptui.Select{
		Label: "Select credential store",
		Items: []string{
			"sqlite (local file)",
			"postgres (shared database)",
		},
	}
	driverIdx, _, err := driverPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("database selection: %w", err)
	}
	drivers := []DatabaseDriver{DriverSQLite, DriverPostgres}
	cfg.Database.Driver = drivers[driverIdx]

	dsnDefault := cfg.Database.DSN
	if cfg.Database.Driver == DriverPostgres {
		dsnDefault = "postgres://localhost:5432/botkit?sslmode=disable"
	}
	dsnPrompt := promptui.Prompt{
		Label:   "Database DSN",
		Default: dsnDefault,
	}
	dsn, err := dsnPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("database dsn: %w", err)
	}

	cfg.Slack.ClientID = strings.TrimSpace(clientID)
	cfg.Slack.ClientSecret = strings.TrimSpace(clientSecret)
	cfg.Slack.SigningSecret = strings.TrimSpace(signingSecret)
	cfg.Slack.RedirectURI = strings.TrimSpace(redirectURI)
	if scopes := splitAndTrim(scopesStr); len(scopes) > 0 {
		cfg.Slack.Scopes = scopes
	}
	cfg.Database.DSN = strings.TrimSpace(dsn)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Slack.CheckOAuth(); err != nil {
		fmt.Printf("\nNote: %v. The OAuth routes stay disabled until both are set.\n", err)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
