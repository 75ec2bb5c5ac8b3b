package handlers

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"docportal/internal/client"
	"docportal/internal/display"
	"docportal/internal/middleware"
	"docportal/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type backend interface {
	Register(ctx context.Context, creds models.Credentials) (*models.MessageResult, error)
	Login(ctx context.Context, creds models.Credentials) (*models.MessageResult, error)
	Upload(ctx context.Context, file *models.SelectedFile) (*models.MessageResult, error)
	Search(ctx context.Context, query string) (*models.SearchResult, error)
}

type documentInspector interface {
	Inspect(name string, data []byte) (*models.SelectedFile, error)
	MaxBytes() int64
}

// ViewHandler renders the portal page and runs its four triggers. Each
// trigger makes exactly one backend call (none when local validation
// fails) and replaces the session's displayed message with the outcome.
// Triggers are not serialized: when two race, the one finishing last wins.
type ViewHandler struct {
	backend   backend
	board     display.Board
	inspector documentInspector
	logger    *zap.Logger
}

func NewViewHandler(backend backend, board display.Board, inspector documentInspector, logger *zap.Logger) *ViewHandler {
	return &ViewHandler{
		backend:   backend,
		board:     board,
		inspector: inspector,
		logger:    logger,
	}
}

type pageData struct {
	State       models.ViewState
	MaxUploadMB int64
}

func (h *ViewHandler) Index(w http.ResponseWriter, r *http.Request) {
	state := h.current(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	err := pageTemplate.Execute(w, pageData{
		State:       state,
		MaxUploadMB: h.inspector.MaxBytes() / (1024 * 1024),
	})
	if err != nil {
		h.logger.Error("failed to render page", zap.Error(err))
	}
}

// State returns the session's view state as JSON.
func (h *ViewHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.current(r.Context()))
}

func (h *ViewHandler) current(ctx context.Context) models.ViewState {
	sessionID := middleware.GetSessionID(ctx)
	state, ok, err := h.board.Latest(ctx, sessionID)
	if err != nil {
		h.logger.Warn("failed to load display state", zap.String("session", sessionID), zap.Error(err))
	}
	if err != nil || !ok {
		return models.ViewState{}
	}
	return state
}

// outcome turns a backend answer into display text: the operation's
// fallback on failure, missing when the expected field is absent.
func (h *ViewHandler) outcome(ctx context.Context, op client.Operation, text string, err error, missing string) string {
	if err != nil {
		h.logger.Warn("trigger failed",
			zap.String("op", string(op)),
			zap.String("request_id", middleware.GetRequestID(ctx)),
			zap.Error(err),
		)
		return op.Fallback()
	}
	if text == "" {
		return missing
	}
	return text
}

// show stores the new state and answers the trigger: a redirect back to the
// page for forms, the message itself for JSON callers.
func (h *ViewHandler) show(w http.ResponseWriter, r *http.Request, status int, state models.ViewState) {
	ctx := r.Context()
	sessionID := middleware.GetSessionID(ctx)
	state.UpdatedAt = time.Now().UTC()

	if err := h.board.Post(ctx, sessionID, state); err != nil {
		h.logger.Error("failed to post display state", zap.String("session", sessionID), zap.Error(err))
	}

	if wantsJSON(r) {
		writeJSON(w, status, models.ActionResponse{Message: state.Message, Operation: state.Operation})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
