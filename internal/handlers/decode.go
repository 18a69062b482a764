package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/GregMSThompson/projecthub-dashboard/internal/errs"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON document into v. Malformed bodies are client errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.NewValidationError("invalid request body: " + err.Error())
	}
	return nil
}
