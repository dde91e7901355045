package dockhand

import (
	"bytes"
	"encoding/json"
	"net/http"
)

var okPayload = json.RawMessage(`{"status":"ok"}`)

// Response is a successful Dockhand reply.
type Response struct {
	StatusCode int
	// Payload is always valid JSON. JSON bodies are passed through unmodified.
	Payload json.RawMessage
}

// normalizePayload turns a 2xx body into a JSON document:
// empty bodies and 204 become {"status":"ok"}, JSON bodies are returned as-is
// and anything else is wrapped as {"status":"ok","text":"<body>"}.
func normalizePayload(statusCode int, body []byte) json.RawMessage {
	if statusCode == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		return okPayload
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}

	wrapped, err := json.Marshal(struct {
		Status string `json:"status"`
		Text   string `json:"text"`
	}{Status: "ok", Text: string(body)})
	if err != nil {
		return okPayload
	}
	return wrapped
}
