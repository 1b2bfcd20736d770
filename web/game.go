package web

import (
	"errors"
	"log"
	"net/http"

	"guestsnap/assignment"
	"guestsnap/db"
	"guestsnap/handlers"
	"guestsnap/models"

	"github.com/gin-gonic/gin"
)

// GameNext hands the device its challenge target. The same device keeps
// getting the same guest until it clears or submits.
func GameNext(c *gin.Context) {
	share, err := getShare(c)
	if err != nil {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "album link expired or unknown"})
		return
	}
	device := c.Query("device")
	if device == "" {
		c.JSON(http.StatusBadRequest, handlers.Response{Error: "device is required"})
		return
	}
	if guestID, ok := coordinator.CurrentAssignment(share.AlbumID, device); ok {
		guest := models.Guest{}
		if db.Instance.First(&guest, guestID).Error == nil {
			c.JSON(http.StatusOK, gin.H{"error": "", "id": guest.ID, "name": guest.Name, "photo_url": guest.PhotoURL})
			return
		}
	}
	guest, err := coordinator.GetUnassignedGuest(share.AlbumID, device)
	if err != nil {
		if errors.Is(err, assignment.ErrNoGuestsAvailable) || errors.Is(err, assignment.ErrAlbumNotFound) {
			c.JSON(http.StatusNotFound, handlers.Response{Error: err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, handlers.Response{Error: "DB error 1"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "id": guest.ID, "name": guest.Name, "photo_url": guest.PhotoURL})
}

// GameClear gives the device's current target up. Clearing with no target
// is fine.
func GameClear(c *gin.Context) {
	share, err := getShare(c)
	if err != nil {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "album link expired or unknown"})
		return
	}
	device := c.Query("device")
	if device == "" {
		c.JSON(http.StatusBadRequest, handlers.Response{Error: "device is required"})
		return
	}
	if err = coordinator.ClearAssignment(share.AlbumID, device); err != nil {
		c.JSON(http.StatusInternalServerError, handlers.Response{Error: "DB error 1"})
		return
	}
	c.JSON(http.StatusOK, handlers.Response{})
}

// GamePhoto accepts the device's challenge submission. The photo goes into
// the album like any other upload, tagged with the target it was taken for,
// and the device's assignment is released.
func GamePhoto(c *gin.Context) {
	share, err := getShare(c)
	if err != nil {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "album link expired or unknown"})
		return
	}
	device := c.Query("device")
	if device == "" {
		c.JSON(http.StatusBadRequest, handlers.Response{Error: "device is required"})
		return
	}
	guestID, ok := coordinator.CurrentAssignment(share.AlbumID, device)
	if !ok {
		c.JSON(http.StatusConflict, handlers.Response{Error: "no current target, request one first"})
		return
	}
	guest := models.Guest{}
	if err = db.Instance.First(&guest, guestID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, handlers.Response{Error: "DB error 1"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, handlers.Response{Error: err.Error()})
		return
	}
	metadata := map[string]string{
		models.MetaChallenge:  "1",
		models.MetaTargetName: guest.Name,
	}
	photo, err := savePhoto(&share, c.PostForm("uploader"), file, metadata)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handlers.Response{Error: err.Error()})
		return
	}
	photo.GuestID = &guest.ID
	db.Instance.Model(photo).Update("guest_id", guest.ID)
	if err = coordinator.ClearAssignment(share.AlbumID, device); err != nil {
		log.Printf("Game: clear assignment error for device %s: %v", device, err)
	}
	c.JSON(http.StatusOK, gin.H{
		"error":     "",
		"id":        photo.ID,
		"approved":  photo.Approved,
		"url":       photo.PublicURL,
		"thumb_url": photo.ThumbURL,
	})
}
