package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"caretrack.org/internal/audit"
)

type listAuditResponse struct {
	Items     []audit.Record `json:"items"`
	NextAfter uint64         `json:"next_after"`
	AsOf      time.Time      `json:"as_of"`
}

func (a *API) handleAuditList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := a.requireRoles(w, r, adminOnly); !ok {
		return
	}

	limit, err := parseLimit(r.URL.Query().Get("limit"), 100, 1, 1000)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	var after uint64
	if raw := strings.TrimSpace(r.URL.Query().Get("after")); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "after must be a non-negative integer")
			return
		}
		after = v
	}

	records, next, err := a.auditor.List(r.Context(), limit, after)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if records == nil {
		records = make([]audit.Record, 0)
	}
	writeJSON(w, http.StatusOK, listAuditResponse{
		Items:     records,
		NextAfter: next,
		AsOf:      time.Now().UTC(),
	})
}
