package handlers

import (
	"errors"
	"net/http"

	"guestsnap/db"
	"guestsnap/moderation"
	"guestsnap/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type PhotoInfo struct {
	ID           uint64            `json:"id"`
	Created      int64             `json:"created"`
	UploaderName string            `json:"uploader_name"`
	MimeType     string            `json:"mime_type"`
	Approved     bool              `json:"approved"`
	URL          string            `json:"url"`
	ThumbURL     string            `json:"thumb_url"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type PhotoModerateRequest struct {
	ID      uint64 `form:"id" binding:"required"`
	Approve *bool  `form:"approve" binding:"required"`
}

type PhotoIDRequest struct {
	ID uint64 `form:"id" binding:"required"`
}

func photoInfo(photo *models.Photo) PhotoInfo {
	return PhotoInfo{
		ID:           photo.ID,
		Created:      photo.CreatedAt,
		UploaderName: photo.UploaderName,
		MimeType:     photo.MimeType,
		Approved:     photo.Approved,
		URL:          photo.PublicURL,
		ThumbURL:     photo.ThumbURL,
		Metadata:     photo.Metadata,
	}
}

// photoAlbumOwnedBy loads the photo and verifies its album belongs to the user.
func photoAlbumOwnedBy(photoID, userID uint64) (models.Photo, bool) {
	photo := models.Photo{}
	if db.Instance.Joins("Album").First(&photo, photoID).Error != nil {
		return photo, false
	}
	return photo, photo.Album.UserID == userID
}

// PhotoList returns all of the album's photos, pending ones included, in
// upload order. This is the organizer's view.
func PhotoList(c *gin.Context, user *models.User) {
	req := AlbumIDRequest{}
	err := c.ShouldBindWith(&req, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if !userOwnsAlbum(user.ID, req.AlbumID) {
		c.JSON(http.StatusUnauthorized, Response{"access denied"})
		return
	}
	photos, err := gate.ListVisible(req.AlbumID, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error 1"})
		return
	}
	result := make([]PhotoInfo, 0, len(photos))
	for i := range photos {
		result = append(result, photoInfo(&photos[i]))
	}
	c.JSON(http.StatusOK, result)
}

// PhotoListPending returns only the photos awaiting a moderation decision.
func PhotoListPending(c *gin.Context, user *models.User) {
	req := AlbumIDRequest{}
	err := c.ShouldBindWith(&req, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if !userOwnsAlbum(user.ID, req.AlbumID) {
		c.JSON(http.StatusUnauthorized, Response{"access denied"})
		return
	}
	photos, err := gate.ListPending(req.AlbumID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error 1"})
		return
	}
	result := make([]PhotoInfo, 0, len(photos))
	for i := range photos {
		result = append(result, photoInfo(&photos[i]))
	}
	c.JSON(http.StatusOK, result)
}

func PhotoModerate(c *gin.Context, user *models.User) {
	postReq := PhotoModerateRequest{}
	err := c.ShouldBindWith(&postReq, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if _, owned := photoAlbumOwnedBy(postReq.ID, user.ID); !owned {
		c.JSON(http.StatusUnauthorized, Response{"access denied"})
		return
	}
	if err = gate.Moderate(postReq.ID, *postReq.Approve); err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	c.JSON(http.StatusOK, Response{})
}

func PhotoToggleVisibility(c *gin.Context, user *models.User) {
	postReq := PhotoIDRequest{}
	err := c.ShouldBindWith(&postReq, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if _, owned := photoAlbumOwnedBy(postReq.ID, user.ID); !owned {
		c.JSON(http.StatusUnauthorized, Response{"access denied"})
		return
	}
	if err = gate.ToggleVisibility(postReq.ID); err != nil {
		if errors.Is(err, moderation.ErrPhotoNotFound) {
			c.JSON(http.StatusNotFound, Response{err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, Response{err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, Response{})
}

func PhotoDelete(c *gin.Context, user *models.User) {
	postReq := PhotoIDRequest{}
	err := c.ShouldBindWith(&postReq, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if _, owned := photoAlbumOwnedBy(postReq.ID, user.ID); !owned {
		c.JSON(http.StatusUnauthorized, Response{"access denied"})
		return
	}
	if err = gate.Delete(postReq.ID); err != nil {
		if errors.Is(err, moderation.ErrPhotoNotFound) {
			c.JSON(http.StatusNotFound, Response{err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, Response{err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, Response{})
}
