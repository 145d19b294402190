package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"jobdeck/internal/domain"
)

// errorBody is the backend's error envelope. Older deployments used
// "message" instead of "error", so both are read.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) apiError(status int, body []byte) *domain.APIError {
	msg := errorMessage(body)
	return domain.NewAPIError(status, msg, kindForStatus(status, msg))
}

func errorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Error != "" {
			return eb.Error
		}
		if eb.Message != "" {
			return eb.Message
		}
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 256 {
		s = s[:256]
	}
	return s
}

// kindForStatus classifies a rejection into a sentinel callers can branch on.
// The backend historically reported duplicates as 400 with an "already ..."
// message before it moved to 409, so both spellings land on ErrDuplicate.
// Statuses outside the table get no sentinel and surface only their message.
func kindForStatus(status int, message string) error {
	switch status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrDuplicate
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if isDuplicateMessage(message) {
			return domain.ErrDuplicate
		}
		return domain.ErrInvalidInput
	}
	if status >= 500 {
		return domain.ErrServer
	}
	return nil
}

func isDuplicateMessage(message string) bool {
	m := strings.ToLower(message)
	return strings.Contains(m, "already") || strings.Contains(m, "duplicate")
}
