package message

import (
	"bytes"
	"encoding/json"
	"maps"

	"github.com/slack-go/slack"
)

// Payload is one of the provider shapes posted to the receive endpoint:
// *URLVerification, *SSLCheck, *SlashCommand, *OutgoingWebhook,
// *InteractiveCallback, *EventCallback or *Unknown.
type Payload interface {
	// TenantID is the workspace id the payload names directly, if any.
	TenantID() string
	// AuthorizedTenants lists fallback workspace candidates in priority order.
	AuthorizedTenants() []string
	// VerificationToken is the legacy verification token sent by Slack.
	VerificationToken() string

	seed() Message
}

// Seed builds the initial working message for a payload.
func Seed(p Payload) Message {
	m := p.seed()
	m.Source = p
	return m
}

// raw keeps the undecoded top-level fields of a payload.
type raw struct {
	fields map[string]any
}

// Fields returns the payload's top-level fields.
func (r raw) Fields() map[string]any { return r.fields }

// URLVerification is the events API handshake.
type URLVerification struct {
	raw
	Token     string `json:"token"`
	Challenge string `json:"challenge"`
}

func (p *URLVerification) TenantID() string { return "" }
func (p *URLVerification) AuthorizedTenants() []string { return nil }
func (p *URLVerification) VerificationToken() string { return p.Token }

func (p *URLVerification) seed() Message {
	return Message{Type: TypeURLVerification, Fields: p.fields}
}

// SSLCheck is Slack's certificate probe.
type SSLCheck struct {
	raw
	Token string `json:"token"`
}

func (p *SSLCheck) TenantID() string { return "" }
func (p *SSLCheck) AuthorizedTenants() []string { return nil }
func (p *SSLCheck) VerificationToken() string { return p.Token }

func (p *SSLCheck) seed() Message {
	return Message{Type: TypeSSLCheck, Fields: p.fields}
}

// SlashCommand is a slash command invocation.
type SlashCommand struct {
	raw
	slack.SlashCommand
}

func (p *SlashCommand) TenantID() string { return p.TeamID }
func (p *SlashCommand) AuthorizedTenants() []string { return nil }
func (p *SlashCommand) VerificationToken() string { return p.Token }

func (p *SlashCommand) seed() Message {
	return Message{
		Type:        TypeSlashCommand,
		User:        p.UserID,
		Channel:     p.ChannelID,
		Text:        p.Text,
		Team:        p.TeamID,
		Command:     p.Command,
		ResponseURL: p.ResponseURL,
		Fields:      p.fields,
	}
}

// OutgoingWebhook is a legacy outgoing webhook fired by a trigger word.
type OutgoingWebhook struct {
	raw
	Token       string `json:"token"`
	TeamID      string `json:"team_id"`
	TeamDomain  string `json:"team_domain"`
	ChannelID   string `json:"channel_id"`
	ChannelName string `json:"channel_name"`
	Timestamp   string `json:"timestamp"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	Text        string `json:"text"`
	TriggerWord string `json:"trigger_word"`
}

func (p *OutgoingWebhook) TenantID() string { return p.TeamID }
func (p *OutgoingWebhook) AuthorizedTenants() []string { return nil }
func (p *OutgoingWebhook) VerificationToken() string { return p.Token }

func (p *OutgoingWebhook) seed() Message {
	return Message{
		Type:        TypeOutgoingWebhook,
		User:        p.UserID,
		Channel:     p.ChannelID,
		Text:        p.Text,
		Team:        p.TeamID,
		TS:          p.Timestamp,
		TriggerWord: p.TriggerWord,
		Fields:      p.fields,
	}
}

// Entity is a nested {id, name} object.
type Entity struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Domain string `json:"domain,omitempty"`
}

// Option is a selected menu option.
type Option struct {
	Value string `json:"value"`
}

// Action is one element of an interactive callback's actions.
type Action struct {
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Value           string   `json:"value"`
	ActionID        string   `json:"action_id"`
	BlockID         string   `json:"block_id"`
	SelectedOptions []Option `json:"selected_options"`
	SelectedOption  *Option  `json:"selected_option"`
}

// InteractiveCallback is a button, menu or dialog callback.
type InteractiveCallback struct {
	raw
	Type        string            `json:"type"`
	Token       string            `json:"token"`
	CallbackID  string            `json:"callback_id"`
	Team        Entity            `json:"team"`
	User        Entity            `json:"user"`
	Channel     Entity            `json:"channel"`
	Actions     []Action          `json:"actions"`
	Submission  map[string]string `json:"submission"`
	ResponseURL string            `json:"response_url"`
	TriggerID   string            `json:"trigger_id"`
	ActionTS    string            `json:"action_ts"`
	MessageTS   string            `json:"message_ts"`
}

func (p *InteractiveCallback) TenantID() string { return p.Team.ID }
func (p *InteractiveCallback) AuthorizedTenants() []string { return nil }
func (p *InteractiveCallback) VerificationToken() string { return p.Token }

// seed leaves User and Channel unset; the nested objects stay in Fields
// until the interactive stage flattens them.
func (p *InteractiveCallback) seed() Message {
	return Message{
		Type:        p.Type,
		Team:        p.Team.ID,
		CallbackID:  p.CallbackID,
		Submission:  maps.Clone(p.Submission),
		ResponseURL: p.ResponseURL,
		TS:          p.MessageTS,
		Fields:      p.fields,
	}
}

// Authorization is one entry of an event envelope's authorizations list.
type Authorization struct {
	EnterpriseID string `json:"enterprise_id"`
	TeamID       string `json:"team_id"`
	UserID       string `json:"user_id"`
	IsBot        bool   `json:"is_bot"`
}

// InnerEvent is the typed view of an envelope's event object.
type InnerEvent struct {
	Type     string `json:"type"`
	Subtype  string `json:"subtype"`
	User     FlexID `json:"user"`
	Channel  FlexID `json:"channel"`
	Text     string `json:"text"`
	TS       string `json:"ts"`
	ThreadTS string `json:"thread_ts"`
	BotID    string `json:"bot_id"`
	Reaction string `json:"reaction"`
	Item     *Item  `json:"item"`
}

// EventCallback is an events API envelope.
type EventCallback struct {
	raw
	Token          string          `json:"token"`
	TeamID         string          `json:"team_id"`
	APIAppID       string          `json:"api_app_id"`
	EventID        string          `json:"event_id"`
	EventTime      int64           `json:"event_time"`
	AuthedTeams    []string        `json:"authed_teams"`
	AuthedUsers    []string        `json:"authed_users"`
	Authorizations []Authorization `json:"authorizations"`
	RawEvent       json.RawMessage `json:"event"`

	// Event and EventFields are decoded from RawEvent.
	Event       InnerEvent     `json:"-"`
	EventFields map[string]any `json:"-"`
}

func (p *EventCallback) TenantID() string { return p.TeamID }
func (p *EventCallback) VerificationToken() string { return p.Token }

// AuthorizedTenants returns authed_teams followed by the teams of
// authorizations not already listed.
func (p *EventCallback) AuthorizedTenants() []string {
	var out []string
	seen := make(map[string]bool)
	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
	}
	for _, id := range p.AuthedTeams {
		add(id)
	}
	for _, a := range p.Authorizations {
		add(a.TeamID)
	}
	return out
}

func (p *EventCallback) seed() Message {
	return Message{Type: TypeEventCallback, Fields: p.fields}
}

// Unknown is any other JSON object.
type Unknown struct {
	raw
	Type string `json:"type"`
}

// TenantID reads team_id, then team.id.
func (p *Unknown) TenantID() string {
	if id, ok := p.fields["team_id"].(string); ok && id != "" {
		return id
	}
	if team, ok := p.fields["team"].(map[string]any); ok {
		if id, ok := team["id"].(string); ok {
			return id
		}
	}
	return ""
}

func (p *Unknown) AuthorizedTenants() []string { return nil }

func (p *Unknown) VerificationToken() string {
	tok, _ := p.fields["token"].(string)
	return tok
}

func (p *Unknown) seed() Message {
	m := Message{Type: p.Type, Fields: p.fields}
	m.User, _ = p.fields["user"].(string)
	m.Channel, _ = p.fields["channel"].(string)
	m.Text, _ = p.fields["text"].(string)
	m.Subtype, _ = p.fields["subtype"].(string)
	m.TS, _ = p.fields["ts"].(string)
	return m
}

// FlexID decodes either a bare id string or an object carrying an id.
// Some events report user and channel as objects.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*f = FlexID(obj.ID)
	return nil
}
