package web

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"strconv"

	"guestsnap/db"
	"guestsnap/handlers"
	"guestsnap/models"
	"guestsnap/push"
	"guestsnap/storage"
	"guestsnap/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type GuestRegisterRequest struct {
	Name  string `form:"name" binding:"required"`
	Email string `form:"email"`
	Phone string `form:"phone"`
}

// GuestRegister signs a guest up for the album's find-the-guest game. The
// optional selfie becomes the reference photo other players have to match.
// The guest stays out of the pool until the organizer approves them.
func GuestRegister(c *gin.Context) {
	share, err := getShare(c)
	if err != nil {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "album link expired or unknown"})
		return
	}
	postReq := GuestRegisterRequest{}
	if err = c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, handlers.Response{Error: err.Error()})
		return
	}
	guest := models.Guest{
		AlbumID: share.AlbumID,
		Name:    postReq.Name,
		Email:   postReq.Email,
		Phone:   postReq.Phone,
	}
	if err = db.Instance.Create(&guest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, handlers.Response{Error: "DB error 1"})
		return
	}
	if file, ferr := c.FormFile("selfie"); ferr == nil {
		if url, serr := saveGuestSelfie(&share, guest.ID, file); serr == nil {
			guest.PhotoURL = url
			db.Instance.Model(&guest).Update("photo_url", url)
		}
	}
	push.GuestRegistered(share.AlbumID, guest.Name)
	c.JSON(http.StatusOK, gin.H{"error": "", "id": guest.ID, "name": guest.Name})
}

// saveGuestSelfie stores the reference photo, re-encoded as a bounded JPEG,
// under the guest/ prefix of the owner's bucket.
func saveGuestSelfie(share *models.AlbumShare, guestID uint64, file *multipart.FileHeader) (string, error) {
	st := ownerStorage(share)
	if st == nil {
		return "", errNoStorage
	}
	fileReader, err := file.Open()
	if err != nil {
		return "", err
	}
	defer fileReader.Close()
	var selfie bytes.Buffer
	if _, err = utils.CreateThumb(thumbSize, fileReader, &selfie); err != nil {
		return "", err
	}
	path := "guest/" + strconv.FormatUint(share.AlbumID, 10) + "/" + strconv.FormatUint(guestID, 10) + ".jpg"
	if _, err = st.Save(path, &selfie); err != nil {
		return "", err
	}
	if err = st.UpdateFile(path, "image/jpeg"); err != nil {
		return "", err
	}
	st.ReleaseLocalFile(path)
	return st.PublicURL(path), nil
}

// ownerStorage resolves the album owner's bucket, falling back to the
// default one.
func ownerStorage(share *models.AlbumShare) storage.StorageAPI {
	if share.User.BucketID != nil {
		bucket := storage.Bucket{ID: *share.User.BucketID}
		if db.Instance.First(&bucket).Error == nil {
			if st := storage.StorageFrom(&bucket); st != nil {
				return st
			}
		}
	}
	return storage.GetDefaultStorage()
}
