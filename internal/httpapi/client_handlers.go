package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"caretrack.org/internal/audit"
	"caretrack.org/internal/health"
)

type registerClientRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DOB       string `json:"dob"`
	Gender    string `json:"gender"`
	Contact   string `json:"contact"`
}

func (a *API) handleClients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.registerClient(w, r)
	case http.MethodGet:
		a.searchClients(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) registerClient(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.requireRoles(w, r, staffOnly)
	if !ok {
		return
	}
	var req registerClientRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	client, err := a.health.RegisterClient(r.Context(), health.RegisterClientInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		DOB:       req.DOB,
		Gender:    req.Gender,
		Contact:   req.Contact,
	})
	if err != nil {
		a.auditFailure(w, r, principal.IdentityID, "client.register", err, func() {
			handleHealthError(w, r, err)
		})
		return
	}
	if !a.recordAudit(w, r, principal.IdentityID, "client.register", client.ID, audit.OutcomeSuccess, nil) {
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/v1/clients/%s", client.ID))
	writeJSON(w, http.StatusCreated, client)
}

func (a *API) searchClients(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireRoles(w, r, anyAuthenticated); !ok {
		return
	}
	term := r.URL.Query().Get("search")
	clients, err := a.health.SearchClients(r.Context(), term)
	if err != nil {
		handleHealthError(w, r, err)
		return
	}
	if clients == nil {
		clients = make([]health.Client, 0)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": clients,
	})
}

// handleClientResource serves /v1/clients/{id}: the profile view with
// enrolled programs embedded.
func (a *API) handleClientResource(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/clients/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := a.requireRoles(w, r, anyAuthenticated); !ok {
		return
	}
	profile, err := a.health.ClientProfile(r.Context(), id)
	if err != nil {
		handleHealthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
