package response

import (
	"encoding/json"
	"net/http"
)

type SuccessEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// WriteSuccess encodes before writing the status, so an unencodable payload becomes a
// 500 instead of a truncated 200.
func (h *responseHandler) WriteSuccess(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(SuccessEnvelope{Success: true, Data: data})
	if err != nil {
		h.Log.Error("failed to encode success response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"code":"internal_error","message":"An unexpected error occurred"}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.Log.Debug("failed to write success response", "error", err)
	}
}
