package bots

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the Slack receive endpoint on the given router.
func RegisterRoutes(r chi.Router, slackHandler *SlackHandler) {
	r.Post("/slack/receive", slackHandler.HandleEvent)
}
