package pipeline

import (
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/howdylabs/botkit-slack/internal/message"
	"github.com/howdylabs/botkit-slack/internal/tenant"
)

// Acknowledge marks the pending response 200 and sends an empty body,
// except for slash commands, outgoing webhooks and dialog submissions,
// whose response stays open for the reply.
func Acknowledge(h *tenant.BotHandle, m message.Message) (message.Message, bool, error) {
	if h.Response == nil {
		return m, true, nil
	}
	h.Response.Status(http.StatusOK)
	if m.Command == "" && m.TriggerWord == "" && m.Submission == nil && m.Type != message.TypeDialogSubmission {
		h.Response.SendEmpty()
	}
	return m, true, nil
}

// FlattenInteractive normalizes button, menu and dialog callbacks.
func FlattenInteractive(h *tenant.BotHandle, m message.Message) (message.Message, bool, error) {
	cb, ok := m.Source.(*message.InteractiveCallback)
	if !ok {
		return m, true, nil
	}

	m.User = cb.User.ID
	m.Channel = cb.Channel.ID

	switch m.Type {
	case message.TypeInteractiveMessage, message.TypeBlockActions:
		if len(cb.Actions) > 0 {
			a := cb.Actions[0]
			m.Text = a.Value
			switch {
			case len(a.SelectedOptions) > 0:
				m.Text = a.SelectedOptions[0].Value
			case a.SelectedOption != nil:
				m.Text = a.SelectedOption.Value
			}
		}
		m.Type = message.TypeInteractiveMessageCallback
	}
	return m, true, nil
}

// UnwrapEnvelope lifts an events API envelope's inner event to the top
// level. Events the bot produced itself are dropped, except joins.
func UnwrapEnvelope(h *tenant.BotHandle, m message.Message) (message.Message, bool, error) {
	env, ok := m.Source.(*message.EventCallback)
	if !ok || m.Type != message.TypeEventCallback {
		return m, true, nil
	}

	ev := env.Event
	m = m.WithFields(env.EventFields)
	m.Type = ev.Type
	m.Subtype = ev.Subtype
	m.User = string(ev.User)
	m.Channel = string(ev.Channel)
	m.Text = ev.Text
	m.TS = ev.TS
	m.ThreadTS = ev.ThreadTS
	m.BotID = ev.BotID
	m.Item = ev.Item
	m.Team = env.TeamID
	m.EventsAPI = true
	m.AuthedUsers = slices.Clone(env.AuthedUsers)

	botID := h.BotUserID()
	if botID == "" {
		return m, false, fmt.Errorf("tenant %s: %w", h.TenantID(), ErrBotIdentityUnknown)
	}
	if m.User == botID && !isJoin(m.Subtype) {
		return m, false, nil
	}
	return m, true, nil
}

// ReactionChannel copies a reaction's item channel onto the message.
func ReactionChannel(h *tenant.BotHandle, m message.Message) (message.Message, bool, error) {
	if m.Type == message.TypeReactionAdded && m.Item != nil {
		m.Channel = m.Item.Channel
	}
	return m, true, nil
}

var (
	leadingSpace = regexp.MustCompile(`^\s+`)
	leadingColon = regexp.MustCompile(`^:\s+`)

	// mentionCache maps a bot user id to its *mentionPatterns.
	mentionCache sync.Map
)

// mentionPatterns matches a bot mention anywhere and at the start of text.
type mentionPatterns struct {
	anywhere *regexp.Regexp
	leading  *regexp.Regexp
}

func mentionsOf(botID string) *mentionPatterns {
	if p, ok := mentionCache.Load(botID); ok {
		return p.(*mentionPatterns)
	}
	syntax := `<@` + regexp.QuoteMeta(botID) + `(\|[^>]*)?>`
	p, _ := mentionCache.LoadOrStore(botID, &mentionPatterns{
		anywhere: regexp.MustCompile(`(?i)` + syntax),
		leading:  regexp.MustCompile(`(?i)^` + syntax),
	})
	return p.(*mentionPatterns)
}

// Disambiguate classifies plain messages as direct_message, direct_mention,
// mention or ambient. Subtyped messages take their subtype as their type.
// Messages written by the bot get the bot_ prefix.
func Disambiguate(h *tenant.BotHandle, m message.Message) (message.Message, bool, error) {
	if m.Type != message.TypeMessage {
		return m, true, nil
	}

	botID := h.BotUserID()
	if botID == "" {
		return m, false, fmt.Errorf("tenant %s: %w", h.TenantID(), ErrBotIdentityUnknown)
	}
	patterns := mentionsOf(botID)
	mention, directMention := patterns.anywhere, patterns.leading

	m.Text = strings.TrimSpace(m.Text)

	switch {
	case m.Subtype != "":
		m.Type = m.Subtype

	case m.IsDirectChannel():
		if m.Text == "" {
			return m, false, nil
		}
		m.Type = message.TypeDirectMessage
		m.Text = stripMention(directMention, m.Text)

	default:
		if m.Text == "" {
			return m, false, nil
		}
		switch {
		case directMention.MatchString(m.Text):
			m.Type = message.TypeDirectMention
			m.Text = stripMention(directMention, m.Text)
		case mention.MatchString(m.Text):
			m.Type = message.TypeMention
		default:
			m.Type = message.TypeAmbient
		}
	}

	if m.User == botID {
		m.Type = message.BotPrefix + m.Type
	}
	return m, true, nil
}

func stripMention(re *regexp.Regexp, text string) string {
	text = re.ReplaceAllString(text, "")
	text = leadingSpace.ReplaceAllString(text, "")
	text = leadingColon.ReplaceAllString(text, "")
	return leadingSpace.ReplaceAllString(text, "")
}

func isJoin(subtype string) bool {
	return subtype == message.TypeChannelJoin || subtype == message.TypeGroupJoin
}
