package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"pagecraft/internal/domain"
	"pagecraft/internal/service"
)

// writeError maps service and domain errors onto status codes.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var verr *domain.ValidationError
	var backend *service.BackendError

	switch {
	case errors.Is(err, domain.ErrEmailTaken) && errors.As(err, &verr):
		writeJSON(w, http.StatusConflict, FailFields(domain.ErrEmailTaken.Error(), verr.Fields))
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, FailFields("validation failed", verr.Fields))
	case errors.Is(err, domain.ErrNotAuthenticated):
		writeJSON(w, http.StatusUnauthorized, Result[any]{Code: ResultTokenExpired, Type: "error", Message: "not authenticated"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, Fail(err.Error()))
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, Fail("not found"))
	case errors.Is(err, domain.ErrSlugTaken), errors.Is(err, domain.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, Fail(err.Error()))
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrInvalidSlug),
		errors.Is(err, domain.ErrContentMismatch),
		errors.Is(err, domain.ErrUnknownComponentType),
		errors.Is(err, domain.ErrUnknownSection),
		errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrUnknownStyleKey),
		errors.Is(err, domain.ErrUnknownFontTheme),
		errors.Is(err, domain.ErrUnknownTemplate):
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
	case errors.Is(err, service.ErrFileTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, Fail(err.Error()))
	case errors.Is(err, service.ErrUnsupportedMediaType):
		writeJSON(w, http.StatusUnsupportedMediaType, Fail(err.Error()))
	case errors.As(err, &backend):
		logger.Error("Backend failure", zap.String("op", backend.Op), zap.Error(backend.Err))
		writeJSON(w, http.StatusInternalServerError, Fail("storage temporarily unavailable, please retry"))
	default:
		logger.Error("Unhandled error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
	}
}
