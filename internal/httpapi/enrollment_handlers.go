package httpapi

import (
	"fmt"
	"net/http"

	"caretrack.org/internal/audit"
)

type enrollRequest struct {
	ClientID  string `json:"client_id"`
	ProgramID string `json:"program_id"`
}

func (a *API) handleEnrollments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	principal, ok := a.requireRoles(w, r, staffOnly)
	if !ok {
		return
	}
	var req enrollRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	enrollment, err := a.health.Enroll(r.Context(), req.ClientID, req.ProgramID)
	if err != nil {
		a.auditFailure(w, r, principal.IdentityID, "enrollment.create", err, func() {
			handleHealthError(w, r, err)
		})
		return
	}
	if !a.recordAudit(w, r, principal.IdentityID, "enrollment.create", enrollment.ID, audit.OutcomeSuccess, map[string]string{
		"client_id":  enrollment.ClientID,
		"program_id": enrollment.ProgramID,
	}) {
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/v1/enrollments/%s", enrollment.ID))
	writeJSON(w, http.StatusCreated, enrollment)
}
