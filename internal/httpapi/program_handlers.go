package httpapi

import (
	"fmt"
	"net/http"

	"caretrack.org/internal/audit"
	"caretrack.org/internal/health"
)

type createProgramRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (a *API) handlePrograms(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.createProgram(w, r)
	case http.MethodGet:
		a.listPrograms(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) createProgram(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.requireRoles(w, r, adminOnly)
	if !ok {
		return
	}
	var req createProgramRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	program, err := a.health.CreateProgram(r.Context(), req.Name, req.Description)
	if err != nil {
		a.auditFailure(w, r, principal.IdentityID, "program.create", err, func() {
			handleHealthError(w, r, err)
		})
		return
	}
	if !a.recordAudit(w, r, principal.IdentityID, "program.create", program.ID, audit.OutcomeSuccess, map[string]string{
		"name": program.Name,
	}) {
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/v1/programs/%s", program.ID))
	writeJSON(w, http.StatusCreated, program)
}

func (a *API) listPrograms(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireRoles(w, r, anyAuthenticated); !ok {
		return
	}
	programs, err := a.health.Programs(r.Context())
	if err != nil {
		handleHealthError(w, r, err)
		return
	}
	if programs == nil {
		programs = make([]health.Program, 0)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": programs,
	})
}
