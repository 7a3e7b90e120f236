package oauth

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/slack-go/slack"

	"github.com/howdylabs/botkit-slack/internal/config"
	"github.com/howdylabs/botkit-slack/internal/credentials"
)

const defaultAPIRoot = "https://slack.com"

// SlackExchanger calls oauth.v2.access.
type SlackExchanger struct {
	clientID     string
	clientSecret string
	redirectURI  string
	client       *http.Client
}

// NewSlackExchanger creates an exchanger for the configured app. Requests
// go to cfg.APIRoot instead of slack.com when it is set to another host.
func NewSlackExchanger(cfg config.SlackConfig, client *http.Client) (*SlackExchanger, error) {
	if client == nil {
		client = http.DefaultClient
	}
	root := strings.TrimRight(cfg.APIRoot, "/")
	if root != "" && root != defaultAPIRoot {
		u, err := url.Parse(root)
		if err != nil {
			return nil, err
		}
		base := client.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		c := *client
		c.Transport = &rootTransport{root: u, base: base}
		client = &c
	}
	return &SlackExchanger{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
		client:       client,
	}, nil
}

// Exchange trades code for a grant.
func (e *SlackExchanger) Exchange(ctx context.Context, code string) (credentials.Grant, error) {
	resp, err := slack.GetOAuthV2ResponseContext(ctx, e.client, e.clientID, e.clientSecret, code, e.redirectURI)
	if err != nil {
		return credentials.Grant{}, err
	}
	return credentials.Grant{
		AccessToken: resp.AuthedUser.AccessToken,
		Scope:       resp.Scope,
		UserID:      resp.AuthedUser.ID,
		TeamID:      resp.Team.ID,
		TeamName:    resp.Team.Name,
		AppID:       resp.AppID,
		Bot: credentials.BotGrant{
			BotUserID:      resp.BotUserID,
			BotAccessToken: resp.AccessToken,
		},
	}, nil
}

// rootTransport sends requests to another host, keeping the path below
// the root's own path.
type rootTransport struct {
	root *url.URL
	base http.RoundTripper
}

func (t *rootTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.URL.Scheme = t.root.Scheme
	r.URL.Host = t.root.Host
	r.URL.Path = strings.TrimRight(t.root.Path, "/") + r.URL.Path
	r.Host = t.root.Host
	return t.base.RoundTrip(r)
}
