package handlers

import (
	"encoding/json"
	"mime"
	"net/http"

	"docportal/internal/client"
	"docportal/internal/middleware"
	"docportal/internal/models"
)

func (h *ViewHandler) Register(w http.ResponseWriter, r *http.Request) {
	creds, ok := readCredentials(w, r)
	if !ok {
		return
	}

	resp, err := h.backend.Register(r.Context(), creds)
	msg := h.outcome(r.Context(), client.OpRegister, resp.Text(), err, client.OpRegister.Fallback())

	state := h.current(r.Context())
	state.Username = creds.Username
	state.Message = msg
	state.Operation = string(client.OpRegister)
	h.show(w, r, http.StatusOK, state)
}

func (h *ViewHandler) Login(w http.ResponseWriter, r *http.Request) {
	creds, ok := readCredentials(w, r)
	if !ok {
		return
	}

	resp, err := h.backend.Login(r.Context(), creds)
	msg := h.outcome(r.Context(), client.OpLogin, resp.Text(), err, client.OpLogin.Fallback())

	state := h.current(r.Context())
	state.Username = creds.Username
	state.Message = msg
	state.Operation = string(client.OpLogin)
	h.show(w, r, http.StatusOK, state)
}

// readCredentials accepts a JSON body or form fields. Empty values are sent
// as typed; the backend decides what is acceptable.
func readCredentials(w http.ResponseWriter, r *http.Request) (models.Credentials, bool) {
	var creds models.Credentials

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
			return creds, false
		}
		return creds, true
	}

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid form body", r))
		return creds, false
	}
	creds.Username = r.PostForm.Get("username")
	creds.Password = r.PostForm.Get("password")
	return creds, true
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get(middleware.RequestIDHeader),
		},
	}
}
