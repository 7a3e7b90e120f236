package oauth

import (
	"strings"

	"golang.org/x/oauth2"

	"github.com/howdylabs/botkit-slack/internal/config"
)

// Endpoint returns Slack's OAuth v2 endpoints under apiRoot.
func Endpoint(apiRoot string) oauth2.Endpoint {
	root := strings.TrimRight(apiRoot, "/")
	return oauth2.Endpoint{
		AuthURL:  root + "/oauth/v2/authorize",
		TokenURL: root + "/api/oauth.v2.access",
	}
}

// LoginURL builds the authorize URL a user visits to install the app.
// Slack expects the scopes comma separated.
func LoginURL(cfg config.SlackConfig, state string) string {
	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     Endpoint(cfg.APIRoot),
		RedirectURL:  cfg.RedirectURI,
	}
	if len(cfg.Scopes) > 0 {
		conf.Scopes = []string{strings.Join(cfg.Scopes, ",")}
	}
	return conf.AuthCodeURL(state)
}
