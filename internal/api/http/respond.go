package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/logger"
)

type errorBody struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", "error", err)
	}
}

// writeError maps a core error kind onto an HTTP status. Unknown errors are
// treated as upstream failures, not client mistakes.
func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	status := http.StatusBadGateway
	switch kind {
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindDuplicateItem, domain.KindNotAvailable, domain.KindInvalidTransition:
		status = http.StatusConflict
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindPermissionDenied:
		status = http.StatusForbidden
	}
	body := errorBody{Error: http.StatusText(status), Kind: string(kind)}
	var de *domain.Error
	if errors.As(err, &de) {
		body.Detail = de.Detail
	}
	if status >= 500 {
		logger.Error("request failed", "kind", kind, "error", err)
	}
	writeJSON(w, status, body)
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.WrapE(domain.KindValidation, "http.decode", "malformed request body", err)
	}
	return nil
}
