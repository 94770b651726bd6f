package handlers

import (
	"net/http"
)

// ListAuditLogs pages through the append-only audit trail, newest first.
func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 50)
	if err != nil || limit < 1 || limit > 200 {
		respondError(w, http.StatusBadRequest, "limit must be between 1 and 200")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		respondError(w, http.StatusBadRequest, "offset must be non-negative")
		return
	}
	logs, err := h.audit.List(r.Context(), limit, offset)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"audit_logs": logs,
		"limit":      limit,
		"offset":     offset,
	})
}
