package handlers

import (
	"encoding/json"
	"mime"
	"net/http"

	"docportal/internal/client"
)

const msgNoResults = "No results found"

func (h *ViewHandler) Search(w http.ResponseWriter, r *http.Request) {
	query, ok := readQuery(w, r)
	if !ok {
		return
	}

	resp, err := h.backend.Search(r.Context(), query)
	msg := h.outcome(r.Context(), client.OpSearch, resp.Text(), err, msgNoResults)

	state := h.current(r.Context())
	state.Query = query
	state.Message = msg
	state.Operation = string(client.OpSearch)
	h.show(w, r, http.StatusOK, state)
}

func readQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
			return "", false
		}
		return req.Query, true
	}

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid form body", r))
		return "", false
	}
	return r.PostForm.Get("query"), true
}
