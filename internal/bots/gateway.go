package bots

import (
	"context"

	"go.uber.org/zap"

	"github.com/howdylabs/botkit-slack/internal/message"
	"github.com/howdylabs/botkit-slack/internal/tenant"
)

// Gateway hands every classified message to the conversation engine. The
// listened-to types are marked as conversation-continuing.
type Gateway struct {
	handler MessageHandler
	listen  map[string]bool
	log     *zap.Logger
}

// NewGateway creates a Gateway for handler. listen names the message types
// that continue a conversation.
func NewGateway(handler MessageHandler, listen []string, log *zap.Logger) *Gateway {
	set := make(map[string]bool, len(listen))
	for _, typ := range listen {
		set[typ] = true
	}
	return &Gateway{
		handler: handler,
		listen:  set,
		log:     log.With(zap.String("component", "gateway")),
	}
}

// Listens reports whether messages of type typ continue a conversation.
func (g *Gateway) Listens(typ string) bool {
	return g.listen[typ]
}

// Deliver passes msg to the handler with Continuing set from the listen
// set. Handler errors are logged and not retried.
func (g *Gateway) Deliver(ctx context.Context, h *tenant.BotHandle, msg message.Message) {
	msg.Continuing = g.Listens(msg.Type)
	if err := g.handler.HandleMessage(ctx, h, msg); err != nil {
		g.log.Error("conversation engine failed",
			zap.String("tenant_id", h.TenantID()),
			zap.String("type", msg.Type),
			zap.Error(err),
		)
	}
}
