package oauth

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/howdylabs/botkit-slack/internal/credentials"
)

// Service completes installs by storing the exchanged grant.
type Service struct {
	exchanger Exchanger
	store     credentials.Store
	log       *zap.Logger
}

// NewService creates a new OAuth completion service.
func NewService(exchanger Exchanger, store credentials.Store, log *zap.Logger) *Service {
	return &Service{
		exchanger: exchanger,
		store:     store,
		log:       log.With(zap.String("component", "oauth")),
	}
}

// Complete exchanges code and records the installing user and the tenant.
// Both records are create-or-replace. The user is written before the
// tenant; a tenant write failure leaves the user record in place.
func (s *Service) Complete(ctx context.Context, code string) (credentials.Grant, error) {
	grant, err := s.exchanger.Exchange(ctx, code)
	if err != nil {
		return credentials.Grant{}, &ExchangeError{Err: err}
	}
	if grant.TeamID == "" {
		return credentials.Grant{}, &ExchangeError{Err: fmt.Errorf("grant has no team id")}
	}

	blob, err := grant.Encode()
	if err != nil {
		return credentials.Grant{}, err
	}

	if err := s.store.UpsertUser(ctx, grant.UserID, grant.TeamID, grant.AccessToken); err != nil {
		return credentials.Grant{}, fmt.Errorf("saving user %s: %w", grant.UserID, err)
	}
	if err := s.store.UpsertTenant(ctx, grant.TeamID, blob); err != nil {
		return credentials.Grant{}, fmt.Errorf("saving tenant %s: %w", grant.TeamID, err)
	}

	s.log.Info("tenant installed",
		zap.String("tenant_id", grant.TeamID),
		zap.String("team_name", grant.TeamName),
		zap.String("user_id", grant.UserID),
	)
	return grant, nil
}
