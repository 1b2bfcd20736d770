package web

import (
	"net/http"

	"guestsnap/db"
	"guestsnap/handlers"
	"guestsnap/models"
	"guestsnap/utils"

	"github.com/gin-gonic/gin"
)

// AlbumView is the page guests land on after scanning the QR code. Only
// approved photos are shown, in upload order.
func AlbumView(c *gin.Context) {
	share, err := getShare(c)
	if err != nil {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "album link expired or unknown"})
		return
	}
	photos := []models.Photo{}
	err = db.Instance.
		Where("album_id = ? and approved = 1", share.AlbumID).
		Order("created_at, id").
		Find(&photos).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, handlers.Response{Error: "DB error 1"})
		return
	}
	result := make([]gin.H, 0, len(photos))
	var minDate, maxDate int64
	for _, photo := range photos {
		if minDate == 0 || photo.CreatedAt < minDate {
			minDate = photo.CreatedAt
		}
		if photo.CreatedAt > maxDate {
			maxDate = photo.CreatedAt
		}
		result = append(result, gin.H{
			"id":            photo.ID,
			"uploader_name": photo.UploaderName,
			"url":           photo.PublicURL,
			"thumb_url":     photo.ThumbURL,
		})
	}
	json := gin.H{
		"ownerName":   "@" + share.User.Name,
		"name":        share.Album.Name,
		"description": share.Album.Description,
		"subtitle":    utils.GetDatesString(minDate, maxDate),
		"photos":      result,
		"heroPhotoID": 0,
	}
	if share.Album.HeroPhotoID != nil {
		json["heroPhotoID"] = *share.Album.HeroPhotoID
	}
	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, json)
		return
	}
	c.HTML(http.StatusOK, "album_view.tmpl", json)
}
