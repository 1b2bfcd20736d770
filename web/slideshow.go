package web

import (
	"net/http"

	"guestsnap/db"
	"guestsnap/gallery"
	"guestsnap/handlers"
	"guestsnap/models"

	"github.com/gin-gonic/gin"
)

// slideshowSeed loads the album's approved photos for the shared feed's
// initial fill.
func slideshowSeed(albumID uint64) func() ([]models.Photo, error) {
	return func() ([]models.Photo, error) {
		photos := []models.Photo{}
		err := db.Instance.
			Where("album_id = ? and approved = 1", albumID).
			Order("created_at, id").
			Find(&photos).Error
		return photos, err
	}
}

// SlideshowView serves the shared slideshow state: every viewer of the album
// gets the same randomized order and the same auto-advancing cursor.
func SlideshowView(c *gin.Context) {
	share, err := getShare(c)
	if err != nil {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "album link expired or unknown"})
		return
	}
	show, err := feeds.Show(share.AlbumID, slideshowSeed(share.AlbumID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, handlers.Response{Error: "DB error 1"})
		return
	}
	feed, err := feeds.Slideshow(share.AlbumID, slideshowSeed(share.AlbumID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, handlers.Response{Error: "DB error 1"})
		return
	}
	photos := feed.Photos()
	result := make([]gin.H, 0, len(photos))
	for _, photo := range photos {
		result = append(result, gin.H{
			"id":        photo.ID,
			"url":       photo.PublicURL,
			"thumb_url": photo.ThumbURL,
		})
	}
	json := gin.H{
		"name":        share.Album.Name,
		"photos":      result,
		"index":       show.Index(),
		"playing":     show.Playing(),
		"interval_ms": gallery.DefaultInterval.Milliseconds(),
	}
	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, json)
		return
	}
	c.HTML(http.StatusOK, "slideshow.tmpl", json)
}

// AlbumSocket streams the album's photo events to a guest viewer. Photos
// that never cleared moderation produce no events here.
func AlbumSocket(c *gin.Context) {
	share, err := getShare(c)
	if err != nil {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "album link expired or unknown"})
		return
	}
	// Make sure the shared feed exists so the slideshow order keeps folding
	// events even with no slideshow page currently open
	if _, err = feeds.Slideshow(share.AlbumID, slideshowSeed(share.AlbumID)); err != nil {
		c.JSON(http.StatusInternalServerError, handlers.Response{Error: "DB error 1"})
		return
	}
	handlers.ServeAlbumSocket(c, share.AlbumID, false)
}
