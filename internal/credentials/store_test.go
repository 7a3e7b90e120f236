package credentials

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/howdylabs/botkit-slack/internal/db"
)

func setupStore(t *testing.T) *SQLStore {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestFindTenantMissing(t *testing.T) {
	store := setupStore(t)

	got, err := store.FindTenant(context.Background(), "T404")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpsertTenantCreatesThenReplaces(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	first := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	store.now = func() time.Time { return first }
	require.NoError(t, store.UpsertTenant(ctx, "T1", `{"team_id":"T1","bot":{"bot_user_id":"UB1"}}`))

	got, err := store.FindTenant(ctx, "T1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "T1", got.ID)
	assert.Equal(t, first, got.CreatedAt)
	assert.Equal(t, first, got.ModifiedAt)

	second := first.Add(time.Hour)
	store.now = func() time.Time { return second }
	require.NoError(t, store.UpsertTenant(ctx, "T1", `{"team_id":"T1"}`))

	got, err = store.FindTenant(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, `{"team_id":"T1"}`, got.Auth, "upsert must replace, not merge")
	assert.Equal(t, first, got.CreatedAt)
	assert.Equal(t, second, got.ModifiedAt)
}

func TestUpsertUserKeyedByUserAndTenant(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertUser(ctx, "U1", "T1", "xoxp-1"))
	require.NoError(t, store.UpsertUser(ctx, "U1", "T2", "xoxp-2"))
	require.NoError(t, store.UpsertUser(ctx, "U1", "T1", "xoxp-3"))

	u, err := store.FindUser(ctx, "U1", "T1")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "xoxp-3", u.Token)
	assert.Equal(t, "T1", u.TenantID)

	u, err = store.FindUser(ctx, "U1", "T2")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "xoxp-2", u.Token)

	u, err = store.FindUser(ctx, "U2", "T1")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestGrantRoundTrip(t *testing.T) {
	g := Grant{
		AccessToken: "xoxp-user",
		UserID:      "U1",
		TeamID:      "T1",
		TeamName:    "Howdy",
		Bot:         BotGrant{BotUserID: "UB1", BotAccessToken: "xoxb-bot"},
	}
	blob, err := g.Encode()
	require.NoError(t, err)

	decoded, err := DecodeGrant(blob)
	require.NoError(t, err)
	assert.Equal(t, g, decoded)
}

func TestDecodeGrantLegacyShape(t *testing.T) {
	// Blobs written by the original installer carried extra fields.
	blob := `{"ok":true,"access_token":"xoxp-1","scope":"bot","user_id":"U1","team_name":"Howdy","team_id":"T1","bot":{"bot_user_id":"UB1","bot_access_token":"xoxb-1"}}`

	g, err := DecodeGrant(blob)
	require.NoError(t, err)
	assert.Equal(t, "UB1", g.Bot.BotUserID)
	assert.Equal(t, "xoxb-1", g.Bot.BotAccessToken)
	assert.Equal(t, "T1", g.TeamID)
}

func TestDecodeGrantInvalid(t *testing.T) {
	_, err := DecodeGrant("not json")
	assert.Error(t, err)
}
