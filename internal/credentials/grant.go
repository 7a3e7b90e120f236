package credentials

import (
	"encoding/json"
	"fmt"
)

// Grant is the access grant returned by Slack's OAuth exchange, in the
// shape stored in TenantCredential.Auth.
type Grant struct {
	AccessToken string   `json:"access_token,omitempty"`
	Scope       string   `json:"scope,omitempty"`
	UserID      string   `json:"user_id,omitempty"`
	TeamID      string   `json:"team_id"`
	TeamName    string   `json:"team_name,omitempty"`
	AppID       string   `json:"app_id,omitempty"`
	Bot         BotGrant `json:"bot"`
}

// BotGrant is the bot half of a Grant.
type BotGrant struct {
	BotUserID      string `json:"bot_user_id,omitempty"`
	BotAccessToken string `json:"bot_access_token,omitempty"`
}

// Encode serializes the grant for storage.
func (g Grant) Encode() (string, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("marshalling grant: %w", err)
	}
	return string(data), nil
}

// DecodeGrant parses a stored auth blob.
func DecodeGrant(auth string) (Grant, error) {
	var g Grant
	if err := json.Unmarshal([]byte(auth), &g); err != nil {
		return Grant{}, fmt.Errorf("parsing grant: %w", err)
	}
	return g, nil
}
