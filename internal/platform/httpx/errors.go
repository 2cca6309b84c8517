package httpx

import (
	"errors"
	"net/http"

	"github.com/invoicer-app/invoicer/internal/shared"
)

// validationResponse is the AJAX error shape consumed by inline editors and
// the line-item formset: one message per submitted field name.
type validationResponse struct {
	Status string            `json:"status"`
	Errors map[string]string `json:"errors"`
}

// RespondError maps domain errors to HTTP responses. Validation batches keep
// their per-field structure; everything else becomes an RFC7807 problem.
func RespondError(w http.ResponseWriter, err error) {
	var fields shared.FieldErrors
	switch {
	case errors.As(err, &fields):
		JSON(w, http.StatusBadRequest, validationResponse{Status: "error", Errors: fields})
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, shared.ErrReferenced):
		Problem(w, http.StatusConflict, "Referenced", err.Error())
	case errors.Is(err, shared.ErrNoStylesheet):
		Problem(w, http.StatusConflict, "Not Configured", err.Error())
	case errors.Is(err, shared.ErrItemRef):
		Problem(w, http.StatusBadRequest, "Invalid Reference", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
