package tenant

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/howdylabs/botkit-slack/internal/credentials"
	"github.com/howdylabs/botkit-slack/internal/message"
)

// BotHandle is bound to one tenant's credentials for the lifetime of one
// request. It is never shared between requests.
type BotHandle struct {
	Tenant *credentials.TenantCredential
	Grant  credentials.Grant

	// API is scoped to the bot access token.
	API *slack.Client

	// Response is the pending HTTP response, when the payload arrived over
	// a request/response transport.
	Response *ResponseSink

	log *zap.Logger
}

// TenantID returns the workspace the handle is bound to.
func (h *BotHandle) TenantID() string { return h.Tenant.ID }

// BotUserID returns the bot's own user id, or "" when the grant lacks it.
func (h *BotHandle) BotUserID() string { return h.Grant.Bot.BotUserID }

// Logger returns the handle's logger.
func (h *BotHandle) Logger() *zap.Logger { return h.log }

// Send posts text to a channel and returns the message timestamp.
func (h *BotHandle) Send(ctx context.Context, channel, text string, opts ...slack.MsgOption) (string, error) {
	if h.API == nil {
		return "", fmt.Errorf("tenant %s has no bot token", h.TenantID())
	}
	opts = append([]slack.MsgOption{slack.MsgOptionText(text, false)}, opts...)
	_, ts, err := h.API.PostMessageContext(ctx, channel, opts...)
	if err != nil {
		return "", fmt.Errorf("posting message to %s: %w", channel, err)
	}
	return ts, nil
}

// Reply answers src. While the originating response is still pending the
// reply is written into it; otherwise it is posted to src's channel,
// threaded when src was.
func (h *BotHandle) Reply(ctx context.Context, src message.Message, text string) error {
	if h.Response != nil && h.Response.Pending() {
		return h.Response.JSON(map[string]string{"text": text})
	}

	var opts []slack.MsgOption
	if src.ThreadTS != "" {
		opts = append(opts, slack.MsgOptionTS(src.ThreadTS))
	}
	_, err := h.Send(ctx, src.Channel, text, opts...)
	return err
}
