package api

import (
	"net/http"

	"github.com/phrazzld/kuizlet/internal/api/shared"
	"github.com/phrazzld/kuizlet/internal/cloudsync"
)

// SyncStatusResponse is the sync state shown in the UI status bar.
type SyncStatusResponse struct {
	Status       cloudsync.Status `json:"status"`
	Label        string           `json:"label"`
	LastSyncedAt *int64           `json:"lastSyncedAt,omitempty"`
}

// SyncHandler handles sync-status and manual-sync HTTP requests.
type SyncHandler struct {
	coordinator *cloudsync.Coordinator
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(coordinator *cloudsync.Coordinator) *SyncHandler {
	return &SyncHandler{coordinator: coordinator}
}

// Status handles GET /api/sync/status requests.
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	response := SyncStatusResponse{
		Status: h.coordinator.Status(),
		Label:  h.coordinator.StatusLabel(),
	}
	if syncedAt, ok := h.coordinator.LastSyncedAt(); ok {
		response.LastSyncedAt = &syncedAt
	}
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// SyncNow handles POST /api/sync/now requests: an immediate push bypassing
// the debounce window, used on study-session exit. Always accepted; the
// outcome lands in the sync status.
func (h *SyncHandler) SyncNow(w http.ResponseWriter, r *http.Request) {
	h.coordinator.SyncNow(r.Context())
	h.Status(w, r)
}
