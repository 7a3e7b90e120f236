package oauth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/howdylabs/botkit-slack/internal/config"
)

// Handler serves the install endpoints.
type Handler struct {
	svc *Service
	cfg config.SlackConfig
	log *zap.Logger
	now func() time.Time
}

// NewHandler creates the install endpoint handler.
func NewHandler(svc *Service, cfg config.SlackConfig, log *zap.Logger) *Handler {
	return &Handler{
		svc: svc,
		cfg: cfg,
		log: log.With(zap.String("component", "oauth")),
		now: time.Now,
	}
}

// RegisterRoutes mounts the install endpoints on the given router.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/slack/login", h.handleLogin)
	r.Get("/slack/oauth", h.handleCallback)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := NewState(h.cfg.ClientSecret, h.now())
	if err != nil {
		h.log.Error("issuing state", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, LoginURL(h.cfg, state), http.StatusFound)
}

func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if e := q.Get("error"); e != "" {
		h.log.Warn("install denied", zap.String("error", e))
		http.Redirect(w, r, "/slack/login", http.StatusFound)
		return
	}
	if err := VerifyState(h.cfg.ClientSecret, q.Get("state"), h.now()); err != nil {
		h.log.Warn("rejected oauth callback", zap.Error(err))
		http.Redirect(w, r, "/slack/login", http.StatusFound)
		return
	}

	if _, err := h.svc.Complete(r.Context(), q.Get("code")); err != nil {
		h.log.Error("completing install", zap.Error(err))
		http.Redirect(w, r, "/slack/login", http.StatusFound)
		return
	}
	http.Redirect(w, r, h.cfg.LoginSuccessURL, http.StatusFound)
}
