package handlers

import (
	"guestsnap/assignment"
	"guestsnap/db"
	"guestsnap/gallery"
	"guestsnap/moderation"
	"guestsnap/realtime"
)

// Response is the default reply for all handlers - contains error if applicable
type Response struct {
	Error string `json:"error"`
}

// MultiResponse is used in cases where some processing may fail but some may succeed
type MultiResponse struct {
	Error  string   `json:"error"`
	Failed []uint64 `json:"failed"`
}

var (
	hub         *realtime.Hub
	gate        *moderation.Gate
	coordinator *assignment.Coordinator
	feeds       *gallery.Registry
)

// Init injects the shared services all handlers use.
func Init(h *realtime.Hub, g *moderation.Gate, c *assignment.Coordinator, r *gallery.Registry) {
	hub = h
	gate = g
	coordinator = c
	feeds = r
}

// userOwnsAlbum reports whether the album exists and belongs to the user.
func userOwnsAlbum(userID, albumID uint64) bool {
	var count int64
	if err := db.Instance.Raw("select count(*) from albums where id = ? and user_id = ?", albumID, userID).Scan(&count).Error; err != nil {
		return false
	}
	return count == 1
}
