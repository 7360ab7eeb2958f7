package handlers

import (
	"encoding/json"
	"net/http"

	"budget/internal/middleware"
	"budget/internal/workspace"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// workspaceFor resolves the authenticated user's ledger workspace. A false
// return means the response has already been written.
func (h *Handler) workspaceFor(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return nil, "", false
	}
	ws, err := h.workspaces.Get(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to open ledger")
		return nil, "", false
	}
	return ws, userID, true
}
