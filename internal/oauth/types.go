// Package oauth provisions tenant credentials through Slack's OAuth v2
// install flow.
package oauth

import (
	"context"
	"errors"

	"github.com/howdylabs/botkit-slack/internal/credentials"
)

// ErrUpstreamExchangeFailed matches every *ExchangeError.
var ErrUpstreamExchangeFailed = errors.New("oauth code exchange failed")

// ExchangeError wraps a failed authorization code exchange.
type ExchangeError struct {
	Err error
}

func (e *ExchangeError) Error() string { return "oauth code exchange failed: " + e.Err.Error() }

func (e *ExchangeError) Unwrap() error { return e.Err }

func (e *ExchangeError) Is(target error) bool { return target == ErrUpstreamExchangeFailed }

// Exchanger trades an authorization code for an access grant.
type Exchanger interface {
	Exchange(ctx context.Context, code string) (credentials.Grant, error)
}

// ExchangerFunc adapts a function to Exchanger.
type ExchangerFunc func(ctx context.Context, code string) (credentials.Grant, error)

// Exchange calls f.
func (f ExchangerFunc) Exchange(ctx context.Context, code string) (credentials.Grant, error) {
	return f(ctx, code)
}
