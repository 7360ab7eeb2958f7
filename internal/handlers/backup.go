package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"budget/internal/db"
	"budget/internal/middleware"
)

// maxRestoreBytes caps uploaded snapshots; a personal ledger is tiny.
const maxRestoreBytes = 64 << 20

func (h *Handler) Backup(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	snapshot, err := h.workspaces.Snapshot(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to snapshot ledger")
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="ledger.db"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(snapshot)))
	_, _ = w.Write(snapshot)
}

func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxRestoreBytes+1))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	if len(data) > maxRestoreBytes {
		respondError(w, http.StatusRequestEntityTooLarge, "snapshot too large")
		return
	}
	if err := h.workspaces.Restore(r.Context(), userID, data); err != nil {
		if errors.Is(err, db.ErrInvalidSnapshot) {
			respondError(w, http.StatusBadRequest, "not a valid ledger snapshot")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to restore ledger")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}
