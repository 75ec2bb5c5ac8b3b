package models

import "time"

// ViewState is the transient UI state of one browser session. The password
// is deliberately absent: it is consumed by the trigger and never kept.
type ViewState struct {
	Username  string    `json:"username"`
	Query     string    `json:"query"`
	Message   string    `json:"message"`
	Operation string    `json:"operation"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const WSTypeDisplayUpdate = "display_update"

type DisplayUpdate struct {
	Message   string    `json:"message"`
	Operation string    `json:"operation"`
	UpdatedAt time.Time `json:"updated_at"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ActionResponse is the JSON answer of a trigger.
type ActionResponse struct {
	Message   string `json:"message"`
	Operation string `json:"operation"`
}
