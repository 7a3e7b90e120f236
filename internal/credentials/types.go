// Package credentials persists the Slack tenant and user credentials
// provisioned by the OAuth handshake.
package credentials

import (
	"context"
	"time"
)

// TenantCredential is the installation record of one Slack workspace.
// Auth holds the serialized Grant.
type TenantCredential struct {
	ID         string
	Auth       string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// UserCredential is the token of a user who authorized the app in a
// workspace. One record exists per (ID, TenantID).
type UserCredential struct {
	ID         string
	TenantID   string
	Token      string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// Store is the credential store. Find methods return (nil, nil) when no
// record exists. Upserts create the record or replace its fields; they
// never merge.
type Store interface {
	FindTenant(ctx context.Context, id string) (*TenantCredential, error)
	UpsertTenant(ctx context.Context, id, auth string) error
	FindUser(ctx context.Context, id, tenantID string) (*UserCredential, error)
	UpsertUser(ctx context.Context, id, tenantID, token string) error
}
