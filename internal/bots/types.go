package bots

import (
	"context"
	"strings"

	"github.com/howdylabs/botkit-slack/internal/message"
	"github.com/howdylabs/botkit-slack/internal/tenant"
)

// MessageHandler is the conversation engine. It receives classified
// messages of the types the gateway listens to.
type MessageHandler interface {
	HandleMessage(ctx context.Context, h *tenant.BotHandle, msg message.Message) error
}

// HandlerFunc adapts a function to MessageHandler.
type HandlerFunc func(ctx context.Context, h *tenant.BotHandle, msg message.Message) error

// HandleMessage calls f.
func (f HandlerFunc) HandleMessage(ctx context.Context, h *tenant.BotHandle, msg message.Message) error {
	return f(ctx, h, msg)
}

// formatReply turns "- " list items into Slack bullets.
func formatReply(text string) string {
	if !strings.Contains(text, "\n") {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "- ") {
			lines[i] = "• " + line[2:]
		}
	}
	return strings.Join(lines, "\n")
}
