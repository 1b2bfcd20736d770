// Package web holds the public guest-facing endpoints, all of them gated by
// an album share token instead of a session.
package web

import (
	"errors"
	"time"

	"guestsnap/assignment"
	"guestsnap/db"
	"guestsnap/gallery"
	"guestsnap/models"
	"guestsnap/realtime"

	"github.com/gin-gonic/gin"
)

var (
	errNotAnImage = errors.New("only image uploads are accepted")
	errNoStorage  = errors.New("no storage configured")
)

var (
	hub         *realtime.Hub
	coordinator *assignment.Coordinator
	feeds       *gallery.Registry
)

// Init injects the shared services the guest endpoints use.
func Init(h *realtime.Hub, c *assignment.Coordinator, r *gallery.Registry) {
	hub = h
	coordinator = c
	feeds = r
}

// DisallowRobots keeps crawlers away from the tokenized album links.
func DisallowRobots(c *gin.Context) {
	c.String(200, "User-agent: *\nDisallow: /\n")
}

// getShare resolves the :token URL parameter to an active album share with
// the album and its owner preloaded.
func getShare(c *gin.Context) (share models.AlbumShare, err error) {
	token := c.Param("token")
	err = db.Instance.
		Where("token = ? and (expires_at = 0 or expires_at > ?)", token, time.Now().Unix()).
		Preload("Album").
		Preload("User").
		First(&share).Error
	return
}
