package httpapi

import (
	"errors"
	"net/http"

	"caretrack.org/internal/audit"
	"caretrack.org/internal/auth"
	"caretrack.org/internal/health"
)

func handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrConflict):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, auth.ErrUnauthorized):
		writeError(w, r, http.StatusUnauthorized, "invalid credentials")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func handleHealthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, health.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, health.ErrConflict):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, health.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// recordAudit appends one audit record and, when the append fails, fails the
// whole request with 500. Returns false once a response has been written.
func (a *API) recordAudit(w http.ResponseWriter, r *http.Request, actorID, action, targetID string, outcome audit.Outcome, metadata map[string]string) bool {
	if err := a.auditor.Record(r.Context(), actorID, action, targetID, outcome, metadata); err != nil {
		writeError(w, r, http.StatusInternalServerError, "audit write failed")
		return false
	}
	return true
}

// auditFailure records a failed domain operation and then maps the domain
// error onto the response. The audit append still gates the response: if it
// fails, the caller sees 500 regardless of the domain error.
func (a *API) auditFailure(w http.ResponseWriter, r *http.Request, actorID, action string, domainErr error, respond func()) {
	if !a.recordAudit(w, r, actorID, action, "", audit.OutcomeFailure, map[string]string{
		"error": domainErr.Error(),
	}) {
		return
	}
	respond()
}
