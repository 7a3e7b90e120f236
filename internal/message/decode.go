package message

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/slack-go/slack"
)

// ErrMalformed is returned for bodies that are not a recognizable payload.
var ErrMalformed = errors.New("malformed payload")

// Decode parses a receive-endpoint body into its payload variant. JSON and
// form bodies are both accepted; a form field named payload holding JSON is
// decoded exactly once.
func Decode(r *http.Request, body []byte) (Payload, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformed)
	}

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" || (ct != "application/x-www-form-urlencoded" && body[0] == '{') {
		return decodeJSON(body, true)
	}
	return decodeForm(r, body)
}

func decodeForm(r *http.Request, body []byte) (Payload, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if p := values.Get("payload"); p != "" {
		return decodeJSON([]byte(p), false)
	}

	fields := make(map[string]any, len(values))
	for k, v := range values {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}

	switch {
	case values.Get("ssl_check") == "1":
		return &SSLCheck{raw: raw{fields}, Token: values.Get("token")}, nil

	case values.Get("command") != "":
		req := r.Clone(r.Context())
		req.Method = http.MethodPost
		req.Header = r.Header.Clone()
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Body = io.NopCloser(bytes.NewReader(body))
		req.Form, req.PostForm = nil, nil

		sc, err := slack.SlashCommandParse(req)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing slash command: %v", ErrMalformed, err)
		}
		return &SlashCommand{raw: raw{fields}, SlashCommand: sc}, nil

	case values.Get("trigger_word") != "":
		return &OutgoingWebhook{
			raw:         raw{fields},
			Token:       values.Get("token"),
			TeamID:      values.Get("team_id"),
			TeamDomain:  values.Get("team_domain"),
			ChannelID:   values.Get("channel_id"),
			ChannelName: values.Get("channel_name"),
			Timestamp:   values.Get("timestamp"),
			UserID:      values.Get("user_id"),
			UserName:    values.Get("user_name"),
			Text:        values.Get("text"),
			TriggerWord: values.Get("trigger_word"),
		}, nil
	}

	p := &Unknown{raw: raw{fields}}
	p.Type, _ = fields["type"].(string)
	return p, nil
}

func decodeJSON(data []byte, unwrap bool) (Payload, error) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: not an object", ErrMalformed)
	}

	typ, _ := fields["type"].(string)
	switch {
	case typ == TypeURLVerification:
		p := &URLVerification{raw: raw{fields}}
		return p, unmarshalInto(data, p)

	case isSSLCheck(fields["ssl_check"]):
		p := &SSLCheck{raw: raw{fields}}
		return p, unmarshalInto(data, p)

	case unwrap && stringField(fields, "payload") != "":
		return decodeJSON([]byte(stringField(fields, "payload")), false)

	case typ == TypeEventCallback:
		return decodeEnvelope(data, fields)

	case stringField(fields, "callback_id") != "" || isInteractiveType(typ):
		p := &InteractiveCallback{raw: raw{fields}}
		return p, unmarshalInto(data, p)

	case stringField(fields, "command") != "":
		return &SlashCommand{raw: raw{fields}, SlashCommand: slack.SlashCommand{
			Token:        stringField(fields, "token"),
			TeamID:       stringField(fields, "team_id"),
			TeamDomain:   stringField(fields, "team_domain"),
			EnterpriseID: stringField(fields, "enterprise_id"),
			ChannelID:    stringField(fields, "channel_id"),
			ChannelName:  stringField(fields, "channel_name"),
			UserID:       stringField(fields, "user_id"),
			UserName:     stringField(fields, "user_name"),
			Command:      stringField(fields, "command"),
			Text:         stringField(fields, "text"),
			ResponseURL:  stringField(fields, "response_url"),
			TriggerID:    stringField(fields, "trigger_id"),
			APIAppID:     stringField(fields, "api_app_id"),
		}}, nil

	case stringField(fields, "trigger_word") != "":
		p := &OutgoingWebhook{raw: raw{fields}}
		return p, unmarshalInto(data, p)
	}

	return &Unknown{raw: raw{fields}, Type: typ}, nil
}

func decodeEnvelope(data []byte, fields map[string]any) (Payload, error) {
	p := &EventCallback{raw: raw{fields}}
	if err := unmarshalInto(data, p); err != nil {
		return nil, err
	}
	if len(p.RawEvent) == 0 || p.RawEvent[0] != '{' {
		return nil, fmt.Errorf("%w: event_callback without an event object", ErrMalformed)
	}
	if err := json.Unmarshal(p.RawEvent, &p.Event); err != nil {
		return nil, fmt.Errorf("%w: decoding event: %v", ErrMalformed, err)
	}
	if err := json.Unmarshal(p.RawEvent, &p.EventFields); err != nil {
		return nil, fmt.Errorf("%w: decoding event: %v", ErrMalformed, err)
	}
	return p, nil
}

func unmarshalInto(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

func isInteractiveType(typ string) bool {
	switch typ {
	case TypeInteractiveMessage, TypeBlockActions, TypeDialogSubmission:
		return true
	}
	return false
}

func isSSLCheck(v any) bool {
	switch v := v.(type) {
	case string:
		return v == "1"
	case float64:
		return v == 1
	}
	return false
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}
