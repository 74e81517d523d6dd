package apiclient

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/taskspace/internal/services/web/platform/errors"
)

// errorPayload is the API's error body. Message is either a string or a list
// of validation messages.
type errorPayload struct {
	Message    json.RawMessage `json:"message"`
	Error      string          `json:"error"`
	StatusCode int             `json:"statusCode"`
}

// responseError converts a non-2xx response into an application error. The
// server message wins over the HTTP status text.
func responseError(resp *http.Response) error {
	if resp == nil {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	return apperrors.Application(resp.StatusCode, serverMessage(body))
}

func serverMessage(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}
	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if message := decodeMessage(payload.Message); message != "" {
		return message
	}
	return strings.TrimSpace(payload.Error)
}

func decodeMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return strings.TrimSpace(single)
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		parts := make([]string, 0, len(many))
		for _, message := range many {
			if message = strings.TrimSpace(message); message != "" {
				parts = append(parts, message)
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}
