// Package pipeline turns a raw Slack payload into a classified message.
package pipeline

import (
	"errors"

	"go.uber.org/zap"

	"github.com/howdylabs/botkit-slack/internal/message"
	"github.com/howdylabs/botkit-slack/internal/tenant"
)

// ErrBotIdentityUnknown means the tenant's grant carries no bot user id, so
// self-authored events cannot be told apart from user events.
var ErrBotIdentityUnknown = errors.New("bot identity unknown")

// Stage transforms the working message. Returning false drops the message
// and no later stage runs. A non-nil error also drops it.
type Stage func(h *tenant.BotHandle, m message.Message) (message.Message, bool, error)

// Pipeline runs its stages in order.
type Pipeline struct {
	stages []Stage
}

// New returns a pipeline with the given stages. With no stages it uses
// DefaultStages.
func New(stages ...Stage) *Pipeline {
	if len(stages) == 0 {
		stages = DefaultStages()
	}
	return &Pipeline{stages: stages}
}

// DefaultStages returns the standard classification order.
func DefaultStages() []Stage {
	return []Stage{
		Acknowledge,
		FlattenInteractive,
		UnwrapEnvelope,
		ReactionChannel,
		Disambiguate,
	}
}

// Classify seeds a message from p and runs every stage. The bool result is
// false when the message was dropped.
func (p *Pipeline) Classify(h *tenant.BotHandle, payload message.Payload) (message.Message, bool, error) {
	m := message.Seed(payload)
	for _, stage := range p.stages {
		var (
			keep bool
			err  error
		)
		m, keep, err = stage(h, m)
		if err != nil {
			return m, false, err
		}
		if !keep {
			if log := h.Logger(); log != nil {
				log.Debug("message dropped", zap.String("type", m.Type), zap.String("channel", m.Channel))
			}
			return m, false, nil
		}
	}
	return m, true, nil
}

// Classify runs the default pipeline.
func Classify(h *tenant.BotHandle, payload message.Payload) (message.Message, bool, error) {
	return New().Classify(h, payload)
}
