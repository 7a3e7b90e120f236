package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/howdylabs/botkit-slack/internal/db"
)

// SQLStore implements Store on the slack_teams and slack_users tables.
type SQLStore struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a SQLStore backed by the given database.
func NewStore(database *db.DB) *SQLStore {
	return &SQLStore{db: database, now: time.Now}
}

// FindTenant returns the tenant record, or nil if none exists.
func (s *SQLStore) FindTenant(ctx context.Context, id string) (*TenantCredential, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT id, auth, created_at, modified_at
		FROM slack_teams WHERE id = ?`), id)

	var (
		t                 TenantCredential
		created, modified string
	)
	if err := row.Scan(&t.ID, &t.Auth, &created, &modified); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding tenant %s: %w", id, err)
	}
	t.CreatedAt = parseTime(created)
	t.ModifiedAt = parseTime(modified)
	return &t, nil
}

// UpsertTenant creates the tenant record or replaces its auth blob.
// created_at survives a replace.
func (s *SQLStore) UpsertTenant(ctx context.Context, id, auth string) error {
	now := formatTime(s.now())
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO slack_teams (id, auth, created_at, modified_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			auth = excluded.auth,
			modified_at = excluded.modified_at`),
		id, auth, now, now,
	)
	if err != nil {
		return fmt.Errorf("upserting tenant %s: %w", id, err)
	}
	return nil
}

// FindUser returns the user record, or nil if none exists.
func (s *SQLStore) FindUser(ctx context.Context, id, tenantID string) (*UserCredential, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT id, team_id, token, created_at, modified_at
		FROM slack_users WHERE id = ? AND team_id = ?`), id, tenantID)

	var (
		u                 UserCredential
		created, modified string
	)
	if err := row.Scan(&u.ID, &u.TenantID, &u.Token, &created, &modified); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding user %s in %s: %w", id, tenantID, err)
	}
	u.CreatedAt = parseTime(created)
	u.ModifiedAt = parseTime(modified)
	return &u, nil
}

// UpsertUser creates the user record or replaces its token.
func (s *SQLStore) UpsertUser(ctx context.Context, id, tenantID, token string) error {
	now := formatTime(s.now())
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO slack_users (id, team_id, token, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id, team_id) DO UPDATE SET
			token = excluded.token,
			modified_at = excluded.modified_at`),
		id, tenantID, token, now, now,
	)
	if err != nil {
		return fmt.Errorf("upserting user %s in %s: %w", id, tenantID, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
