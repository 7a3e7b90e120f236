package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/howdylabs/botkit-slack/internal/config"
	"github.com/howdylabs/botkit-slack/internal/credentials"
	"github.com/howdylabs/botkit-slack/internal/db"
	"github.com/howdylabs/botkit-slack/internal/server"
)

func newTestServer(t *testing.T, cfg *config.Config) *server.Server {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })

	srv := server.New(server.Config{}, database, zap.NewNop())
	if err := registerAllRoutes(srv, cfg, credentials.NewStore(database), zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	return srv
}

func TestOAuthRoutesDisabledWithoutCredentials(t *testing.T) {
	srv := newTestServer(t, config.DefaultConfig())

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/slack/login", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for disabled login route, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("POST", "/slack/receive",
		strings.NewReader(`{"type":"url_verification","challenge":"c"}`)))
	if w.Code != http.StatusOK {
		t.Errorf("receive endpoint should stay mounted, got %d", w.Code)
	}
}

func TestOAuthRoutesEnabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Slack.ClientID = "123.456"
	cfg.Slack.ClientSecret = "shh"
	srv := newTestServer(t, cfg)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/slack/login", nil))
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); !strings.HasPrefix(loc, "https://slack.com/oauth/v2/authorize?") {
		t.Errorf("unexpected redirect %q", loc)
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "botkit-slack dev") {
		t.Errorf("unexpected output %q", out.String())
	}
}
