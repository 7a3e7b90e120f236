// Package tenant resolves which workspace a payload belongs to and binds a
// bot handle to that workspace's credentials.
package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/slack-go/slack"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/howdylabs/botkit-slack/internal/credentials"
	"github.com/howdylabs/botkit-slack/internal/message"
)

// ErrTenantNotFound matches every *NotFoundError.
var ErrTenantNotFound = errors.New("tenant not found")

// NotFoundError is returned when no candidate id has a credential record.
type NotFoundError struct {
	// Attempted lists every id that was looked up, in order.
	Attempted []string
	// Err accumulates the store errors seen along the way, if any.
	Err error
}

func (e *NotFoundError) Error() string {
	msg := "tenant not found"
	if len(e.Attempted) > 0 {
		msg += " (tried " + strings.Join(e.Attempted, ", ") + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NotFoundError) Unwrap() error { return e.Err }

func (e *NotFoundError) Is(target error) bool { return target == ErrTenantNotFound }

// Resolver finds the credential record for a payload.
type Resolver struct {
	store  credentials.Store
	apiURL string
	log    *zap.Logger
}

// NewResolver creates a Resolver. apiRoot is the Slack host, e.g.
// https://slack.com; handles call its /api/ endpoints.
func NewResolver(store credentials.Store, apiRoot string, log *zap.Logger) *Resolver {
	return &Resolver{
		store:  store,
		apiURL: strings.TrimRight(apiRoot, "/") + "/api/",
		log:    log.With(zap.String("component", "resolver")),
	}
}

// Resolve returns a handle bound to the payload's tenant. The direct tenant
// id is tried first. When it is absent, misses or fails, the payload's
// authorized tenant candidates are scanned one at a time in order and the
// first stored record wins; later candidates are not looked up. Lookup
// errors do not stop the scan.
func (r *Resolver) Resolve(ctx context.Context, p message.Payload) (*BotHandle, error) {
	var (
		attempted []string
		errs      error
	)

	if id := p.TenantID(); id != "" {
		attempted = append(attempted, id)
		rec, err := r.store.FindTenant(ctx, id)
		if err != nil {
			errs = multierr.Append(errs, err)
		} else if rec != nil {
			return r.bind(rec)
		}
	}

	for _, id := range p.AuthorizedTenants() {
		if id == p.TenantID() {
			continue
		}
		attempted = append(attempted, id)
		rec, err := r.store.FindTenant(ctx, id)
		if err != nil {
			r.log.Debug("candidate lookup failed", zap.String("tenant_id", id), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		if rec != nil {
			return r.bind(rec)
		}
	}

	return nil, &NotFoundError{Attempted: attempted, Err: errs}
}

func (r *Resolver) bind(rec *credentials.TenantCredential) (*BotHandle, error) {
	grant, err := credentials.DecodeGrant(rec.Auth)
	if err != nil {
		return nil, fmt.Errorf("tenant %s: %w", rec.ID, err)
	}

	h := &BotHandle{
		Tenant: rec,
		Grant:  grant,
		log:    r.log.With(zap.String("tenant_id", rec.ID)),
	}
	if grant.Bot.BotAccessToken != "" {
		h.API = slack.New(grant.Bot.BotAccessToken, slack.OptionAPIURL(r.apiURL))
	}
	return h, nil
}
