package handlers

import (
	"net/http"

	"guestsnap/db"
	"guestsnap/models"
	"guestsnap/storage"
	"guestsnap/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type GuestInfo struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Approved bool   `json:"approved"`
	Assigned bool   `json:"assigned"`
	PhotoURL string `json:"photo_url"`
}

type GuestAddRequest struct {
	AlbumID uint64 `form:"album_id" binding:"required"`
	Name    string `form:"name" binding:"required"`
	Email   string `form:"email"`
	Phone   string `form:"phone"`
}

type GuestApproveRequest struct {
	ID      uint64 `form:"id" binding:"required"`
	Approve *bool  `form:"approve" binding:"required"`
}

type GuestIDRequest struct {
	ID uint64 `form:"id" binding:"required"`
}

// guestAlbumOwnedBy loads the guest and verifies its album belongs to the user.
func guestAlbumOwnedBy(guestID, userID uint64) (models.Guest, bool) {
	guest := models.Guest{}
	if db.Instance.Joins("Album").First(&guest, guestID).Error != nil {
		return guest, false
	}
	return guest, guest.Album.UserID == userID
}

func GuestList(c *gin.Context, user *models.User) {
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
	guests := []models.Guest{}
	err = db.Instance.Where("album_id = ?", req.AlbumID).Order("created_at, id").Find(&guests).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error 1"})
		return
	}
	result := make([]GuestInfo, 0, len(guests))
	for _, guest := range guests {
		result = append(result, GuestInfo{
			ID:       guest.ID,
			Name:     guest.Name,
			Email:    guest.Email,
			Phone:    guest.Phone,
			Approved: guest.Approved,
			Assigned: guest.Assigned,
			PhotoURL: guest.PhotoURL,
		})
	}
	c.JSON(http.StatusOK, result)
}

// GuestAdd lets the organizer register a guest directly. The guest still
// needs a reference photo before the game can hand them out.
func GuestAdd(c *gin.Context, user *models.User) {
	postReq := GuestAddRequest{}
	err := c.ShouldBindWith(&postReq, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if !userOwnsAlbum(user.ID, postReq.AlbumID) {
		c.JSON(http.StatusUnauthorized, Response{"access denied"})
		return
	}
	guest := models.Guest{
		AlbumID:  postReq.AlbumID,
		Name:     postReq.Name,
		Email:    postReq.Email,
		Phone:    postReq.Phone,
		Approved: true,
	}
	if err = db.Instance.Create(&guest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error 1"})
		return
	}
	c.JSON(http.StatusOK, GuestInfo{ID: guest.ID, Name: guest.Name, Email: guest.Email, Phone: guest.Phone, Approved: true})
}

func GuestApprove(c *gin.Context, user *models.User) {
	postReq := GuestApproveRequest{}
	err := c.ShouldBindWith(&postReq, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if _, owned := guestAlbumOwnedBy(postReq.ID, user.ID); !owned {
		c.JSON(http.StatusUnauthorized, Response{"access denied"})
		return
	}
	err = db.Instance.Model(&models.Guest{}).Where("id = ?", postReq.ID).Update("approved", *postReq.Approve).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error 1"})
		return
	}
	c.JSON(http.StatusOK, Response{})
}

func GuestDelete(c *gin.Context, user *models.User) {
	postReq := GuestIDRequest{}
	err := c.ShouldBindWith(&postReq, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	guest, owned := guestAlbumOwnedBy(postReq.ID, user.ID)
	if !owned {
		c.JSON(http.StatusUnauthorized, Response{"access denied"})
		return
	}
	if err = db.Instance.Delete(&models.Guest{}, postReq.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error 1"})
		return
	}
	// Best effort removal of the reference selfie
	if guest.PhotoURL != "" && user.BucketID != nil {
		bucket := storage.Bucket{ID: *user.BucketID}
		if db.Instance.First(&bucket).Error == nil {
			if path := utils.StoragePathFromURL(guest.PhotoURL, bucket.Path); path != "" {
				if st := storage.StorageFrom(&bucket); st != nil {
					_ = st.Delete(path)
				}
			}
		}
	}
	c.JSON(http.StatusOK, Response{})
}
