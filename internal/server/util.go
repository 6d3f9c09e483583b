package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sadopc/minima/internal/forms"
	"github.com/sadopc/minima/internal/workspace"
)

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verrs *forms.Errors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation failed", Fields: verrs.Map()})
	case errors.Is(err, workspace.ErrTaskNotFound),
		errors.Is(err, workspace.ErrProjectNotFound),
		errors.Is(err, workspace.ErrNotificationNotFound),
		errors.Is(err, workspace.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	default:
		s.logger.Printf("unexpected error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if v == nil {
		return
	}
	json.NewEncoder(w).Encode(v)
}

// readReq decodes the body into req and answers 400 itself on failure.
func readReq(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON: " + err.Error()})
		return false
	}
	return true
}
