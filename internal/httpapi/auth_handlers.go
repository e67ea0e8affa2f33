package httpapi

import (
	"net/http"
	"strings"
	"time"

	"caretrack.org/internal/audit"
	"caretrack.org/internal/auth"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
	IdentityID string    `json:"identity_id"`
	Role       auth.Role `json:"role"`
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	identity, err := a.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, identity)
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	token, expiresAt, identity, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Token:      token,
		ExpiresAt:  expiresAt,
		IdentityID: identity.ID,
		Role:       identity.Role,
	})
}

// handleIdentityResource serves /v1/identities/{id}/role.
func (a *API) handleIdentityResource(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/identities/"), "/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "role" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, http.MethodPut)
		return
	}
	principal, ok := a.requireRoles(w, r, adminOnly)
	if !ok {
		return
	}
	targetID := parts[0]

	var req changeRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	role, err := auth.ParseRole(req.Role)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	identity, err := a.auth.ChangeRole(r.Context(), targetID, role)
	if err != nil {
		a.auditFailure(w, r, principal.IdentityID, "identity.role.change", err, func() {
			handleAuthError(w, r, err)
		})
		return
	}
	if !a.recordAudit(w, r, principal.IdentityID, "identity.role.change", identity.ID, audit.OutcomeSuccess, map[string]string{
		"role": string(identity.Role),
	}) {
		return
	}
	writeJSON(w, http.StatusOK, identity)
}
