package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"caretrack.org/internal/auth"
	"caretrack.org/internal/obs"
)

const (
	authHeader   = "Authorization"
	bearerScheme = "Bearer "
)

var publicPaths = []string{
	"/v1/auth/register",
	"/v1/auth/login",
	"/healthz",
	"/readyz",
	"/v1/info",
	"/v1/db-status",
	"/metrics",
	"/",
}

// withAuth authenticates every non-public request. A missing or malformed
// Authorization header is treated exactly like an invalid token: 401, no
// distinction leaked to the caller beyond expiry.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			obs.AuthzDenied("unauthenticated")
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		claims, err := a.tokens.Verify(token)
		if err != nil {
			obs.AuthzDenied("unauthenticated")
			if errors.Is(err, auth.ErrExpiredToken) {
				writeError(w, r, http.StatusUnauthorized, "token expired")
				return
			}
			writeError(w, r, http.StatusUnauthorized, "invalid token")
			return
		}

		principal := auth.Principal{IdentityID: claims.IdentityID, Role: claims.Role}
		next.ServeHTTP(w, r.WithContext(auth.ContextWithPrincipal(r.Context(), principal)))
	})
}

// requireRoles enforces the endpoint's exact role set. On a miss it writes
// the response and returns ok=false; the handler body must not run and no
// store call may have happened yet.
func (a *API) requireRoles(w http.ResponseWriter, r *http.Request, allowed auth.RoleSet) (auth.Principal, bool) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		obs.AuthzDenied("unauthenticated")
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return auth.Principal{}, false
	}
	if !allowed.Allows(principal.Role) {
		obs.AuthzDenied("forbidden")
		writeError(w, r, http.StatusForbidden, "insufficient role")
		return auth.Principal{}, false
	}
	return principal, true
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearerScheme)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearerScheme):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
