package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/danieljhkim/previewdeck/internal/engine"
	"github.com/danieljhkim/previewdeck/internal/factory"
	"github.com/danieljhkim/previewdeck/internal/preview"
	"github.com/danieljhkim/previewdeck/internal/resolver"
)

var errBadRequest = errors.New("bad request")

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor maps engine, resolver and factory errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrNotFound),
		errors.Is(err, resolver.ErrConflictNotFound),
		errors.Is(err, resolver.ErrBatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrBlocked),
		errors.Is(err, engine.ErrDuplicate),
		errors.Is(err, engine.ErrPartialNotAllowed),
		errors.Is(err, resolver.ErrForceBlocking):
		return http.StatusConflict
	case errors.Is(err, engine.ErrValidation),
		errors.Is(err, engine.ErrNoSelection),
		errors.Is(err, resolver.ErrInvalidStrategy),
		errors.Is(err, resolver.ErrPatchRequired),
		errors.Is(err, factory.ErrEmptyProposal),
		errors.Is(err, factory.ErrUnknownKind),
		errors.Is(err, preview.ErrInvalidBatch),
		errors.Is(err, preview.ErrInvalidAction),
		errors.Is(err, preview.ErrInvalidItem),
		errors.Is(err, preview.ErrInvalidConflict),
		errors.Is(err, preview.ErrUnknownValue):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes an optional JSON body into v. An empty body leaves v
// untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, preview.ErrUnknownValue) || errors.Is(err, resolver.ErrInvalidStrategy) {
			return err
		}
		return errors.Join(errBadRequest, err)
	}
	return nil
}
