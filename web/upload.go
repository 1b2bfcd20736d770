package web

import (
	"bytes"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"guestsnap/db"
	"guestsnap/handlers"
	"guestsnap/models"
	"guestsnap/push"
	"guestsnap/realtime"
	"guestsnap/storage"
	"guestsnap/utils"

	"github.com/gin-gonic/gin"
)

const thumbSize = 1280

// savePhoto stores one uploaded image in the album owner's bucket, creates
// its thumbnail, publishes the insert event and notifies the owner when the
// photo lands in the moderation queue.
func savePhoto(share *models.AlbumShare, uploaderName string, file *multipart.FileHeader, metadata map[string]string) (*models.Photo, error) {
	mimeType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, errNotAnImage
	}
	photo := models.NewPhoto(&share.Album, uploaderName, file.Filename, mimeType)
	photo.Metadata = metadata
	bucket := storage.Bucket{}
	if share.User.BucketID != nil {
		bucket.ID = *share.User.BucketID
	}
	if bucket.ID > 0 {
		if err := db.Instance.First(&bucket).Error; err != nil {
			return nil, err
		}
	} else {
		defaultStorage := storage.GetDefaultStorage()
		if defaultStorage == nil {
			return nil, errNoStorage
		}
		bucket = *defaultStorage.GetBucket()
	}
	photo.BucketID = bucket.ID
	if err := db.Instance.Create(&photo).Error; err != nil {
		return nil, err
	}
	st := storage.StorageFrom(&bucket)
	if st == nil {
		return nil, errNoStorage
	}
	fileReader, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer fileReader.Close()
	var buf bytes.Buffer
	photo.Size, err = st.Save(photo.GetPath(), io.TeeReader(fileReader, &buf))
	if err != nil {
		return nil, err
	}
	photo.PublicURL = st.PublicURL(photo.GetPath())
	if err = st.UpdateFile(photo.GetPath(), photo.MimeType); err != nil {
		log.Printf("Photo %d: remote update error: %v", photo.ID, err)
	}
	st.ReleaseLocalFile(photo.GetPath())
	var thumb bytes.Buffer
	imageThumbInfo, err := utils.CreateThumb(thumbSize, &buf, &thumb)
	if err != nil {
		// Keep the photo, it just won't have a thumbnail
		log.Printf("Photo %d: CreateThumb error: %v", photo.ID, err)
	} else {
		photo.ThumbWidth = imageThumbInfo.NewX
		photo.ThumbHeight = imageThumbInfo.NewY
		photo.Width = imageThumbInfo.OldX
		photo.Height = imageThumbInfo.OldY
		photo.ThumbSize, err = st.Save(photo.GetThumbPath(), &thumb)
		if err != nil {
			log.Printf("Photo %d: cannot save thumb: %v", photo.ID, err)
		} else {
			photo.ThumbURL = st.PublicURL(photo.GetThumbPath())
			if err = st.UpdateFile(photo.GetThumbPath(), "image/jpeg"); err != nil {
				log.Printf("Photo %d: remote thumb update error: %v", photo.ID, err)
			}
			st.ReleaseLocalFile(photo.GetThumbPath())
		}
	}
	if err = db.Instance.Save(&photo).Error; err != nil {
		return nil, err
	}
	hub.Publish(realtime.Event{Type: realtime.EventInsert, Photo: photo})
	if !photo.Approved {
		var pending int64
		db.Instance.Model(&models.Photo{}).Where("album_id = ? and approved = 0", photo.AlbumID).Count(&pending)
		push.PhotoPending(photo.AlbumID, int(pending))
	}
	return &photo, nil
}

// PhotoUpload accepts a guest's photo for the shared album.
func PhotoUpload(c *gin.Context) {
	share, err := getShare(c)
	if err != nil {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "album link expired or unknown"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, handlers.Response{Error: err.Error()})
		return
	}
	photo, err := savePhoto(&share, c.PostForm("uploader"), file, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handlers.Response{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"error":     "",
		"id":        photo.ID,
		"approved":  photo.Approved,
		"url":       photo.PublicURL,
		"thumb_url": photo.ThumbURL,
	})
}

// UploadView renders the guest upload page.
func UploadView(c *gin.Context) {
	share, err := getShare(c)
	if err != nil {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "album link expired or unknown"})
		return
	}
	c.HTML(http.StatusOK, "upload_files.tmpl", gin.H{
		"who":   "@" + share.User.Name,
		"album": share.Album.Name,
	})
}
