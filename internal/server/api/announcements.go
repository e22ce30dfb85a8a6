package api

import (
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/store"
)

// AnnouncementHandler lists recorded announcements.
type AnnouncementHandler struct {
	store *store.Store
}

// NewAnnouncementHandler creates an AnnouncementHandler.
func NewAnnouncementHandler(s *store.Store) *AnnouncementHandler {
	return &AnnouncementHandler{store: s}
}

type announcementResponse struct {
	ID        int64  `json:"id"`
	SessionID string `json:"session_id"`
	Gesture   string `json:"gesture"`
	CreatedAt string `json:"created_at"`
}

type listAnnouncementsResponse struct {
	Announcements []announcementResponse `json:"announcements"`
}

// ServeHTTP handles GET /api/announcements?limit=N[&session_id=ID].
func (h *AnnouncementHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit, ok := queryInt(r, "limit", 20)
	if !ok {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	var (
		list []store.Announcement
		err  error
	)
	if sessionID := r.URL.Query().Get("session_id"); sessionID != "" {
		list, err = h.store.Announcements().ListBySession(sessionID)
		if len(list) > limit {
			list = list[len(list)-limit:]
		}
	} else {
		list, err = h.store.Announcements().Recent(limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list announcements")
		return
	}

	response := listAnnouncementsResponse{
		Announcements: make([]announcementResponse, 0, len(list)),
	}
	for _, a := range list {
		response.Announcements = append(response.Announcements, announcementResponse{
			ID:        a.ID,
			SessionID: a.SessionID,
			Gesture:   a.Gesture,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
