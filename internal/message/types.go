// Package message models the payloads Slack posts to the receive endpoint
// and the normalized message the classification pipeline produces.
package message

// Payload and classification types.
const (
	TypeURLVerification            = "url_verification"
	TypeSSLCheck                   = "ssl_check"
	TypeEventCallback              = "event_callback"
	TypeSlashCommand               = "slash_command"
	TypeOutgoingWebhook            = "outgoing_webhook"
	TypeInteractiveMessage         = "interactive_message"
	TypeBlockActions               = "block_actions"
	TypeDialogSubmission           = "dialog_submission"
	TypeInteractiveMessageCallback = "interactive_message_callback"
	TypeMessage                    = "message"
	TypeReactionAdded              = "reaction_added"
	TypeChannelJoin                = "channel_join"
	TypeGroupJoin                  = "group_join"
	TypeDirectMessage              = "direct_message"
	TypeDirectMention              = "direct_mention"
	TypeMention                    = "mention"
	TypeAmbient                    = "ambient"

	// BotPrefix marks classifications of messages the bot wrote itself.
	BotPrefix = "bot_"
)

// Item is the object a reaction was added to.
type Item struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
	TS      string `json:"ts"`
	File    string `json:"file,omitempty"`
}

// Message is the normalized message threaded through the classification
// pipeline. It is passed by value; Fields and Submission are treated as
// immutable and replaced rather than modified.
type Message struct {
	Type        string
	Subtype     string
	User        string
	Channel     string
	Text        string
	Team        string
	TS          string
	ThreadTS    string
	BotID       string
	CallbackID  string
	Command     string
	TriggerWord string
	ResponseURL string
	Submission  map[string]string
	Item        *Item
	EventsAPI   bool
	AuthedUsers []string

	// Continuing is set on delivery when the type is one the conversation
	// engine listens to.
	Continuing bool

	// Fields carries every provider field, including the ones without a
	// typed counterpart above.
	Fields map[string]any

	// Source is the payload the message was seeded from.
	Source Payload
}

// Field returns a passthrough field.
func (m Message) Field(key string) (any, bool) {
	v, ok := m.Fields[key]
	return v, ok
}

// WithFields returns a copy of m whose Fields has the given entries set.
// The receiver's map is left untouched.
func (m Message) WithFields(set map[string]any) Message {
	fields := make(map[string]any, len(m.Fields)+len(set))
	for k, v := range m.Fields {
		fields[k] = v
	}
	for k, v := range set {
		fields[k] = v
	}
	m.Fields = fields
	return m
}

// IsDirectChannel reports whether the channel id names a direct
// conversation.
func (m Message) IsDirectChannel() bool {
	return len(m.Channel) > 0 && m.Channel[0] == 'D'
}
