package web

import (
	"net/http"
	"strconv"
	"strings"

	"guestsnap/auth"
	"guestsnap/db"
	"guestsnap/handlers"
	"guestsnap/models"
	"guestsnap/storage"

	"github.com/gin-gonic/gin"
)

// MediaFetch serves the photo binaries of disk-backed buckets. Pending
// photos stay hidden from everyone but the album owner, no matter who has
// the direct URL.
func MediaFetch(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	if path == "" || strings.Contains(path, "..") {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "not found"})
		return
	}
	if strings.HasPrefix(path, "album/") {
		servePhoto(c, path)
		return
	}
	if strings.HasPrefix(path, "guest/") {
		serveGuestPhoto(c, path)
		return
	}
	c.JSON(http.StatusNotFound, handlers.Response{Error: "not found"})
}

// photoIDFromPath extracts the photo id from "album/<aid>/<pid>[_thumb.jpg|.ext]".
func photoIDFromPath(path string) uint64 {
	parts := strings.Split(path, "/")
	if len(parts) != 3 {
		return 0
	}
	name := strings.TrimSuffix(parts[2], "_thumb.jpg")
	if dot := strings.IndexByte(name, '.'); dot >= 0 {
		name = name[:dot]
	}
	id, err := strconv.ParseUint(name, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func servePhoto(c *gin.Context, path string) {
	photoID := photoIDFromPath(path)
	if photoID == 0 {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "not found"})
		return
	}
	photo := models.Photo{}
	if db.Instance.Joins("Bucket").Joins("Album").First(&photo, "photos.id = ?", photoID).Error != nil {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "not found"})
		return
	}
	if !photo.Approved {
		user := auth.LoadSession(c).User()
		if user.ID == 0 || user.ID != photo.Album.UserID {
			c.JSON(http.StatusNotFound, handlers.Response{Error: "not found"})
			return
		}
	}
	st := storage.StorageFrom(&photo.Bucket)
	if st == nil {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "not found"})
		return
	}
	serveFile(c, st, path)
}

func serveGuestPhoto(c *gin.Context, path string) {
	parts := strings.Split(path, "/")
	if len(parts) != 3 {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "not found"})
		return
	}
	albumID, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "not found"})
		return
	}
	album := models.Album{}
	if db.Instance.Joins("User").First(&album, albumID).Error != nil {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "not found"})
		return
	}
	var st storage.StorageAPI
	if album.User.BucketID != nil {
		bucket := storage.Bucket{ID: *album.User.BucketID}
		if db.Instance.First(&bucket).Error == nil {
			st = storage.StorageFrom(&bucket)
		}
	}
	if st == nil {
		st = storage.GetDefaultStorage()
	}
	if st == nil {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "not found"})
		return
	}
	serveFile(c, st, path)
}

func serveFile(c *gin.Context, st storage.StorageAPI, path string) {
	if err := st.EnsureLocalFile(path); err != nil {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "not found"})
		return
	}
	st.Serve(path, c.Request, c.Writer)
}
