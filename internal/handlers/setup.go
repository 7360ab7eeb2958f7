package handlers

import "net/http"

func (h *Handler) SetupStatus(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	status, err := ws.Reports.SetupStatus(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to check setup")
		return
	}
	respondJSON(w, http.StatusOK, status)
}
