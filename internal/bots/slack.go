package bots

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/howdylabs/botkit-slack/internal/message"
	"github.com/howdylabs/botkit-slack/internal/pipeline"
	"github.com/howdylabs/botkit-slack/internal/tenant"
)

// ErrVerificationFailed is returned for requests that fail the signing
// secret or verification token check.
var ErrVerificationFailed = errors.New("verification failed")

const maxBodyBytes = 1 << 20

// SlackHandler serves the Slack receive endpoint.
type SlackHandler struct {
	resolver *tenant.Resolver
	pipeline *pipeline.Pipeline
	gateway  *Gateway
	log      *zap.Logger

	signingSecret     string
	verificationToken string
}

// SlackOptions holds the optional request checks. Empty values disable
// the corresponding check.
type SlackOptions struct {
	SigningSecret     string
	VerificationToken string
}

// NewSlackHandler creates a new Slack receive handler.
func NewSlackHandler(resolver *tenant.Resolver, p *pipeline.Pipeline, gateway *Gateway, opts SlackOptions, log *zap.Logger) *SlackHandler {
	return &SlackHandler{
		resolver:          resolver,
		pipeline:          p,
		gateway:           gateway,
		log:               log.With(zap.String("component", "slack")),
		signingSecret:     opts.SigningSecret,
		verificationToken: opts.VerificationToken,
	}
}

// HandleEvent handles every payload Slack posts: events API envelopes,
// slash commands, outgoing webhooks and interactive callbacks.
func (h *SlackHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if h.signingSecret != "" {
		if err := h.verifySignature(r, body); err != nil {
			h.log.Warn("rejected request", zap.Error(err))
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
	}

	payload, err := message.Decode(r, body)
	if err != nil {
		h.log.Debug("undecodable payload", zap.Error(err))
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	switch p := payload.(type) {
	case *message.URLVerification:
		writeJSON(w, map[string]string{"challenge": p.Challenge})
		return
	case *message.SSLCheck:
		writeJSON(w, map[string]bool{"ok": true})
		return
	}

	if h.verificationToken != "" && payload.VerificationToken() != h.verificationToken {
		h.log.Debug("token verification failed, ignoring message", zap.Error(ErrVerificationFailed))
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	bot, err := h.resolver.Resolve(r.Context(), payload)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			h.log.Warn("no tenant for payload", zap.Error(err))
		} else {
			h.log.Error("resolving tenant", zap.Error(err))
		}
		w.WriteHeader(http.StatusOK)
		return
	}

	bot.Response = tenant.NewResponseSink(w)
	defer bot.Response.Finish()

	msg, ok, err := h.pipeline.Classify(bot, payload)
	if err != nil {
		h.log.Error("classifying message", zap.String("tenant_id", bot.TenantID()), zap.Error(err))
		return
	}
	if !ok {
		return
	}

	h.gateway.Deliver(r.Context(), bot, msg)
}

// verifySignature checks X-Slack-Signature against the signing secret.
func (h *SlackHandler) verifySignature(r *http.Request, body []byte) error {
	sv, err := slack.NewSecretsVerifier(r.Header, h.signingSecret)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	if _, err := sv.Write(body); err != nil {
		return fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	if err := sv.Ensure(); err != nil {
		return fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
