package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"pagecraft/internal/service"
)

// multipart framing on top of the file itself
const multipartOverhead = 64 << 10

// UploadHandler image uploads for profile and page content
type UploadHandler struct {
	uploads *service.UploadService
	logger  *zap.Logger
}

func NewUploadHandler(uploads *service.UploadService, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{uploads: uploads, logger: logger}
}

// Upload expects multipart/form-data with the image in field "file".
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploads.MaxBytes()+multipartOverhead)
	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, h.logger, fmt.Errorf("%w: limit is %d bytes", service.ErrFileTooLarge, h.uploads.MaxBytes()))
			return
		}
		writeJSON(w, http.StatusBadRequest, FailFields("validation failed", map[string]string{"file": "required"}))
		return
	}
	defer file.Close()

	res, err := h.uploads.UploadImage(r.Context(), currentUserID(r), file)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(res))
}
