package pipeline

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/howdylabs/botkit-slack/internal/credentials"
	"github.com/howdylabs/botkit-slack/internal/message"
	"github.com/howdylabs/botkit-slack/internal/tenant"
)

const botUser = "UBOT"

func handle(botUserID string) *tenant.BotHandle {
	return &tenant.BotHandle{
		Tenant: &credentials.TenantCredential{ID: "T1"},
		Grant:  credentials.Grant{TeamID: "T1", Bot: credentials.BotGrant{BotUserID: botUserID}},
	}
}

func decode(t *testing.T, body string) message.Payload {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/slack/receive", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	p, err := message.Decode(r, []byte(body))
	require.NoError(t, err)
	return p
}

func event(t *testing.T, inner map[string]any) message.Payload {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"type":         "event_callback",
		"token":        "tok",
		"team_id":      "T1",
		"authed_users": []string{"U1"},
		"event":        inner,
	})
	require.NoError(t, err)
	return decode(t, string(data))
}

func classify(t *testing.T, h *tenant.BotHandle, p message.Payload) (message.Message, bool) {
	t.Helper()
	m, ok, err := Classify(h, p)
	require.NoError(t, err)
	return m, ok
}

func TestDirectMessage(t *testing.T) {
	m, ok := classify(t, handle(botUser), event(t, map[string]any{
		"type": "message", "user": "U1", "channel": "D123", "text": "  hello there ",
	}))
	require.True(t, ok)
	assert.Equal(t, message.TypeDirectMessage, m.Type)
	assert.Equal(t, "hello there", m.Text)
	assert.Equal(t, "T1", m.Team)
	assert.True(t, m.EventsAPI)
	assert.Equal(t, []string{"U1"}, m.AuthedUsers)
}

func TestDirectMessageStripsLeadingMention(t *testing.T) {
	m, ok := classify(t, handle(botUser), event(t, map[string]any{
		"type": "message", "user": "U1", "channel": "D123", "text": "<@UBOT> status",
	}))
	require.True(t, ok)
	assert.Equal(t, "status", m.Text)
}

func TestEmptyDirectMessageDropped(t *testing.T) {
	_, ok := classify(t, handle(botUser), event(t, map[string]any{
		"type": "message", "user": "U1", "channel": "D123", "text": "   ",
	}))
	assert.False(t, ok)
}

func TestTextlessChannelMessageDropped(t *testing.T) {
	_, ok := classify(t, handle(botUser), event(t, map[string]any{
		"type": "message", "user": "U1", "channel": "C1",
	}))
	assert.False(t, ok)
}

func TestDirectMention(t *testing.T) {
	cases := map[string]struct{ text, want string }{
		"colon":       {"<@UBOT>: deploy", "deploy"},
		"label":       {"<@UBOT|botkit> deploy", "deploy"},
		"lower case":  {"<@ubot>   deploy now", "deploy now"},
		"colon space": {"<@UBOT> :  deploy", "deploy"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			m, ok := classify(t, handle(botUser), event(t, map[string]any{
				"type": "message", "user": "U1", "channel": "C1", "text": tc.text,
			}))
			require.True(t, ok)
			assert.Equal(t, message.TypeDirectMention, m.Type)
			assert.Equal(t, tc.want, m.Text)
		})
	}
}

func TestMentionAndAmbient(t *testing.T) {
	m, ok := classify(t, handle(botUser), event(t, map[string]any{
		"type": "message", "user": "U1", "channel": "C1", "text": "hey <@UBOT> look",
	}))
	require.True(t, ok)
	assert.Equal(t, message.TypeMention, m.Type)
	assert.Equal(t, "hey <@UBOT> look", m.Text)

	m, ok = classify(t, handle(botUser), event(t, map[string]any{
		"type": "message", "user": "U1", "channel": "C1", "text": "lunch?",
	}))
	require.True(t, ok)
	assert.Equal(t, message.TypeAmbient, m.Type)
}

func TestSubtypeBecomesType(t *testing.T) {
	m, ok := classify(t, handle(botUser), event(t, map[string]any{
		"type": "message", "subtype": "channel_topic", "user": "U1", "channel": "C1", "text": "x",
	}))
	require.True(t, ok)
	assert.Equal(t, "channel_topic", m.Type)
}

func TestBotAuthoredEventDropped(t *testing.T) {
	_, ok := classify(t, handle(botUser), event(t, map[string]any{
		"type": "message", "user": botUser, "channel": "C1", "text": "my own message",
	}))
	assert.False(t, ok)
}

func TestBotJoinGetsBotPrefix(t *testing.T) {
	m, ok := classify(t, handle(botUser), event(t, map[string]any{
		"type": "message", "subtype": "channel_join", "user": botUser, "channel": "C1", "text": "<@UBOT> has joined",
	}))
	require.True(t, ok)
	assert.Equal(t, "bot_channel_join", m.Type)
}

func TestBotPrefixOutsideEventsAPI(t *testing.T) {
	p := decode(t, `{"type":"message","user":"UBOT","channel":"C1","text":"hello","team_id":"T1"}`)
	m, ok := classify(t, handle(botUser), p)
	require.True(t, ok)
	assert.Equal(t, "bot_ambient", m.Type)
}

func TestBotPrefixOnEveryBranch(t *testing.T) {
	cases := []struct {
		name     string
		channel  string
		subtype  string
		text     string
		wantType string
		wantText string
	}{
		{"direct message", "D1", "", "<@UBOT> status", "bot_direct_message", "status"},
		{"direct mention", "C1", "", "<@UBOT>: deploy now", "bot_direct_mention", "deploy now"},
		{"mention", "C1", "", "hey <@UBOT>", "bot_mention", "hey <@UBOT>"},
		{"ambient", "C1", "", "lunch?", "bot_ambient", "lunch?"},
		{"subtype", "C1", "message_changed", "edited", "bot_message_changed", "edited"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(map[string]any{
				"type": "message", "team_id": "T1", "user": botUser,
				"channel": tc.channel, "subtype": tc.subtype, "text": tc.text,
			})
			require.NoError(t, err)

			m, ok := classify(t, handle(botUser), decode(t, string(data)))
			require.True(t, ok)
			assert.Equal(t, tc.wantType, m.Type)
			assert.Equal(t, tc.wantText, m.Text)
		})
	}
}

func TestLiftedSlicesDoNotAliasPayload(t *testing.T) {
	p := event(t, map[string]any{"type": "message", "user": "U1", "channel": "C1", "text": "hi"})
	m, ok := classify(t, handle(botUser), p)
	require.True(t, ok)

	m.AuthedUsers[0] = "changed"
	assert.Equal(t, []string{"U1"}, p.(*message.EventCallback).AuthedUsers)

	dialog := decode(t, `{
		"type":"dialog_submission","callback_id":"form","team":{"id":"T1"},
		"user":{"id":"U1"},"channel":{"id":"C1"},"submission":{"name":"Ana"}
	}`)
	m, ok = classify(t, handle(botUser), dialog)
	require.True(t, ok)

	m.Submission["name"] = "changed"
	assert.Equal(t, "Ana", dialog.(*message.InteractiveCallback).Submission["name"])
}

func TestMentionPatternsCachedPerBot(t *testing.T) {
	a := mentionsOf("UCACHE")
	assert.Same(t, a, mentionsOf("UCACHE"))
	assert.NotSame(t, a, mentionsOf("UOTHER"))
	assert.True(t, a.leading.MatchString("<@ucache|bot> hi"))
	assert.False(t, a.leading.MatchString("hi <@UCACHE>"))
}

func TestUnknownBotIdentity(t *testing.T) {
	_, ok, err := Classify(handle(""), event(t, map[string]any{
		"type": "message", "user": "U1", "channel": "C1", "text": "hi",
	}))
	assert.False(t, ok)
	assert.True(t, errors.Is(err, ErrBotIdentityUnknown))
}

func TestReactionChannel(t *testing.T) {
	m, ok := classify(t, handle(botUser), event(t, map[string]any{
		"type":     "reaction_added",
		"user":     "U1",
		"reaction": "thumbsup",
		"item":     map[string]any{"type": "message", "channel": "C42", "ts": "1.2"},
	}))
	require.True(t, ok)
	assert.Equal(t, message.TypeReactionAdded, m.Type)
	assert.Equal(t, "C42", m.Channel)
	v, _ := m.Field("reaction")
	assert.Equal(t, "thumbsup", v)
}

func TestEnvelopeDoesNotMutatePayload(t *testing.T) {
	p := event(t, map[string]any{"type": "message", "user": "U1", "channel": "C1", "text": "hi"})
	_, _ = classify(t, handle(botUser), p)

	env := p.(*message.EventCallback)
	_, lifted := env.Fields()["text"]
	assert.False(t, lifted, "payload fields must not be modified in place")
}

func TestInteractiveSelectedOption(t *testing.T) {
	p := decode(t, `{
		"type":"interactive_message","callback_id":"menu","team":{"id":"T1"},
		"user":{"id":"U1"},"channel":{"id":"C1"},
		"actions":[{"name":"pick","value":"default","selected_options":[{"value":"green"}]}]
	}`)
	m, ok := classify(t, handle(botUser), p)
	require.True(t, ok)
	assert.Equal(t, message.TypeInteractiveMessageCallback, m.Type)
	assert.Equal(t, "green", m.Text)
	assert.Equal(t, "U1", m.User)
	assert.Equal(t, "C1", m.Channel)
}

func TestInteractiveButtonValue(t *testing.T) {
	p := decode(t, `{
		"type":"interactive_message","callback_id":"btn","team":{"id":"T1"},
		"user":{"id":"U1"},"channel":{"id":"C1"},
		"actions":[{"name":"yes","value":"approve"}]
	}`)
	m, ok := classify(t, handle(botUser), p)
	require.True(t, ok)
	assert.Equal(t, "approve", m.Text)
}

func TestBlockActionsSelectedOption(t *testing.T) {
	p := decode(t, `{
		"type":"block_actions","team":{"id":"T1"},"user":{"id":"U1"},"channel":{"id":"C1"},
		"actions":[{"action_id":"a1","selected_option":{"value":"blue"}}]
	}`)
	m, ok := classify(t, handle(botUser), p)
	require.True(t, ok)
	assert.Equal(t, message.TypeInteractiveMessageCallback, m.Type)
	assert.Equal(t, "blue", m.Text)
}

func TestDialogSubmissionKeepsResponsePending(t *testing.T) {
	rec := httptest.NewRecorder()
	h := handle(botUser)
	h.Response = tenant.NewResponseSink(rec)

	p := decode(t, `{
		"type":"dialog_submission","callback_id":"form","team":{"id":"T1"},
		"user":{"id":"U1"},"channel":{"id":"C1"},"submission":{"name":"Ana"}
	}`)
	m, ok := classify(t, h, p)
	require.True(t, ok)
	assert.Equal(t, message.TypeDialogSubmission, m.Type)
	assert.Equal(t, map[string]string{"name": "Ana"}, m.Submission)
	assert.True(t, h.Response.Pending())
}

func TestAcknowledgeSendsEmptyBody(t *testing.T) {
	rec := httptest.NewRecorder()
	h := handle(botUser)
	h.Response = tenant.NewResponseSink(rec)

	_, _ = classify(t, h, event(t, map[string]any{
		"type": "message", "user": "U1", "channel": "C1", "text": "hi",
	}))
	assert.False(t, h.Response.Pending())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestAcknowledgeHoldsSlashCommand(t *testing.T) {
	rec := httptest.NewRecorder()
	h := handle(botUser)
	h.Response = tenant.NewResponseSink(rec)

	p := decode(t, `{"command":"/deploy","text":"api","team_id":"T1","user_id":"U1","channel_id":"C1"}`)
	m, ok := classify(t, h, p)
	require.True(t, ok)
	assert.Equal(t, message.TypeSlashCommand, m.Type)
	assert.True(t, h.Response.Pending())
}

func TestCustomStages(t *testing.T) {
	var calls []string
	record := func(name string, keep bool) Stage {
		return func(h *tenant.BotHandle, m message.Message) (message.Message, bool, error) {
			calls = append(calls, name)
			return m, keep, nil
		}
	}

	p := New(record("a", true), record("b", false), record("c", true))
	_, ok, err := p.Classify(handle(botUser), decode(t, `{"type":"anything"}`))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b"}, calls)
}
