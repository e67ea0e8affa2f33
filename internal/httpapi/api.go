package httpapi

import (
	"context"
	"net/http"
	"time"

	"caretrack.org/internal/audit"
	"caretrack.org/internal/auth"
	"caretrack.org/internal/health"
	"caretrack.org/internal/obs"
)

// Pinger reports backing-store reachability for the readiness and db-status
// probes. The in-memory store has no Pinger; a nil probe means "no database".
type Pinger interface {
	Ping(ctx context.Context) error
}

// Role sets declared per endpoint. Membership is exact: there is no
// hierarchy, and an empty set would deny every caller.
var (
	anyAuthenticated = auth.Roles(auth.RoleAdmin, auth.RoleStaff, auth.RoleViewer)
	adminOnly        = auth.Roles(auth.RoleAdmin)
	staffOnly        = auth.Roles(auth.RoleStaff)
)

// API is the HTTP layer: routing, authentication, role checks, and the
// audit step that every state-changing handler runs before responding.
type API struct {
	mux     *http.ServeMux
	auth    *auth.Service
	tokens  *auth.TokenService
	health  *health.Service
	auditor *audit.Logger
	probe   Pinger
	version string
}

// New wires the route table. probe may be nil when the service runs without
// a database.
func New(authSvc *auth.Service, tokens *auth.TokenService, healthSvc *health.Service, auditor *audit.Logger, probe Pinger, version string) *API {
	a := &API{
		mux:     http.NewServeMux(),
		auth:    authSvc,
		tokens:  tokens,
		health:  healthSvc,
		auditor: auditor,
		probe:   probe,
		version: version,
	}

	a.mux.HandleFunc("/healthz", a.handleHealthz)
	a.mux.HandleFunc("/readyz", a.handleReady)
	a.mux.HandleFunc("/v1/info", a.handleInfo)
	a.mux.HandleFunc("/v1/db-status", a.handleDBStatus)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/v1/auth/register", a.handleRegister)
	a.mux.HandleFunc("/v1/auth/login", a.handleLogin)
	a.mux.HandleFunc("/v1/identities/", a.handleIdentityResource)

	a.mux.HandleFunc("/v1/programs", a.handlePrograms)
	a.mux.HandleFunc("/v1/clients", a.handleClients)
	a.mux.HandleFunc("/v1/clients/", a.handleClientResource)
	a.mux.HandleFunc("/v1/enrollments", a.handleEnrollments)
	a.mux.HandleFunc("/v1/audit", a.handleAuditList)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler assembles the middleware chain around the route table. Request
// identity and logging sit outermost so every response, including rate-limit
// rejections, carries a request id and a log line.
func (a *API) Handler() http.Handler {
	h := a.withAuth(a.mux)
	h = RateLimit(h, 20, 10)
	h = MaxBodyBytes(h, 1<<20)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "caretrack-api",
		"version": a.version,
	})
}

func (a *API) handleReady(w http.ResponseWriter, r *http.Request) {
	if a.probe != nil {
		if err := a.probe.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "not_ready",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "caretrack-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

func (a *API) handleDBStatus(w http.ResponseWriter, r *http.Request) {
	if a.probe == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"database": "unconfigured",
		})
		return
	}
	if err := a.probe.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"database": "disconnected",
			"error":    err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"database": "connected",
	})
}
