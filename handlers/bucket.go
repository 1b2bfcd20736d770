package handlers

import (
	"log"
	"net/http"
	"strings"

	"guestsnap/db"
	"guestsnap/models"
	"guestsnap/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func bucketStorage(bucket *storage.Bucket) storage.StorageAPI {
	if bucket.IsS3() {
		return storage.NewS3Storage(bucket)
	}
	return storage.NewDiskStorage(bucket)
}

func hasWriteAccess(bucket *storage.Bucket) error {
	st := bucketStorage(bucket)
	testPath := "tmp/path"
	_, err := st.Save(testPath, strings.NewReader("some-content"))
	if err != nil {
		log.Printf("Cannot save to bucket: %+v", bucket)
		return err
	}
	err = st.UpdateFile(testPath, "text/plain")
	if err != nil {
		log.Printf("Cannot update bucket: %+v", bucket)
		return err
	}
	err = st.Delete(testPath)
	if err != nil {
		log.Printf("Cannot delete: %+v", bucket)
		return err
	}
	err = st.DeleteRemoteFile(testPath)
	if err != nil {
		log.Printf("Cannot delete remote object from bucket: %+v", bucket)
		return err
	}
	return nil
}

func cleanupPath(in *storage.Bucket) {
	for strings.Contains(in.Path, "..") {
		in.Path = strings.ReplaceAll(in.Path, "..", "")
	}
	for strings.Contains(in.Path, "//") {
		in.Path = strings.ReplaceAll(in.Path, "//", "/")
	}
}

func BucketSave(c *gin.Context, user *models.User) {
	bucket := storage.Bucket{}
	err := c.ShouldBindWith(&bucket, binding.JSON)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	cleanupPath(&bucket)

	if bucket.Name == "" {
		c.JSON(http.StatusBadRequest, Response{"Empty bucket name"})
		return
	}
	if bucket.StorageType == storage.StorageTypeFile {
		if bucket.Path == "" {
			c.JSON(http.StatusBadRequest, Response{"Empty bucket path"})
			return
		}
		if bucket.Path[0] != '/' {
			c.JSON(http.StatusBadRequest, Response{"Path must be absolute and start with / (slash)"})
			return
		}
	} else if bucket.StorageType == storage.StorageTypeS3 {
		if bucket.AuthDetails == "" || !strings.Contains(bucket.AuthDetails, ":") {
			c.JSON(http.StatusBadRequest, Response{"'auth_details' must contain 'key:secret'"})
			return
		}
		if bucket.Region == "" {
			bucket.Region = "us-east-1"
		}
	} else {
		c.JSON(http.StatusBadRequest, Response{"'type' must be one of 'file' or 's3'"})
		return
	}
	if err := hasWriteAccess(&bucket); err != nil {
		c.JSON(http.StatusForbidden, Response{"No write access to bucket: " + err.Error()})
		return
	}
	if bucket.ID == 0 {
		err = bucket.Create()
	} else {
		err = db.Instance.Save(&bucket).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	// Re-initialize storage
	storage.Init()
	c.JSON(http.StatusOK, Response{})
}

func BucketList(c *gin.Context, user *models.User) {
	buckets := []storage.Bucket{}
	result := db.Instance.Find(&buckets)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error 1"})
		return
	}
	c.JSON(http.StatusOK, buckets)
}
