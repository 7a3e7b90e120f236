package bots

import (
	"context"
	"fmt"
	"strings"

	"github.com/howdylabs/botkit-slack/internal/message"
	"github.com/howdylabs/botkit-slack/internal/tenant"
)

const helpText = `Here is what I understand:
- help: this message
- ping: check that I am listening
Button clicks and menu picks are echoed back.`

// Processor is the built-in conversation engine. It answers a couple of
// fixed commands and otherwise stays quiet.
type Processor struct{}

// NewProcessor creates a new message processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// HandleMessage processes a classified message. It detects intent from
// the message type and text:
//   - slash commands are acknowledged on the pending response
//   - interactive callbacks echo the selected value
//   - "help" and "ping" get a fixed answer in conversation-continuing types
//   - anything else is ignored
func (p *Processor) HandleMessage(ctx context.Context, h *tenant.BotHandle, msg message.Message) error {
	var reply string

	switch msg.Type {
	case message.TypeSlashCommand:
		reply = fmt.Sprintf("Got `%s %s`", msg.Command, msg.Text)
		if strings.TrimSpace(msg.Text) == "" {
			reply = fmt.Sprintf("Got `%s`", msg.Command)
		}

	case message.TypeInteractiveMessageCallback:
		if msg.Text == "" {
			return nil
		}
		reply = fmt.Sprintf("You picked *%s*", msg.Text)

	default:
		if !msg.Continuing {
			return nil
		}
		switch strings.ToLower(strings.TrimSpace(msg.Text)) {
		case "help":
			reply = helpText
		case "ping":
			reply = "pong"
		default:
			return nil
		}
	}

	if err := h.Reply(ctx, msg, formatReply(reply)); err != nil {
		return fmt.Errorf("replying to %s: %w", msg.Type, err)
	}
	return nil
}
