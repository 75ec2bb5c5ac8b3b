package handlers

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"docportal/internal/client"
	"docportal/internal/models"
	"docportal/internal/services"
)

const (
	msgNoFile   = "Please select a file to upload."
	formSlack   = 1 << 20 // multipart headers and boundaries around the file
	maxMemoryMB = 32
)

func (h *ViewHandler) Upload(w http.ResponseWriter, r *http.Request) {
	state := h.current(r.Context())
	state.Operation = string(client.OpUpload)

	file, err := h.readSelectedFile(w, r)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			state.Message = ve.Error()
			h.show(w, r, http.StatusBadRequest, state)
			return
		}
		h.logger.Warn("failed to read upload form", zap.Error(err))
		state.Message = client.OpUpload.Fallback()
		h.show(w, r, http.StatusBadRequest, state)
		return
	}

	h.logger.Debug("uploading document",
		zap.String("name", file.Name),
		zap.Int("bytes", file.Size()),
		zap.Int("pages", file.Pages),
	)

	resp, err := h.backend.Upload(r.Context(), file)
	state.Message = h.outcome(r.Context(), client.OpUpload, resp.Text(), err, client.OpUpload.Fallback())
	h.show(w, r, http.StatusOK, state)
}

// readSelectedFile pulls the "file" field out of the multipart form and runs
// it through local validation.
func (h *ViewHandler) readSelectedFile(w http.ResponseWriter, r *http.Request) (*models.SelectedFile, error) {
	limit := h.inspector.MaxBytes()
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit+formSlack)
	}

	if err := r.ParseMultipartForm(maxMemoryMB << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, services.NewSizeLimitError(limit)
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, &services.ValidationError{Fields: map[string]string{"file": msgNoFile}}
		}
		return nil, err
	}

	f, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, &services.ValidationError{Fields: map[string]string{"file": msgNoFile}}
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return h.inspector.Inspect(header.Filename, data)
}
