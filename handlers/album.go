package handlers

import (
	"net/http"
	"strings"

	"guestsnap/config"
	"guestsnap/db"
	"guestsnap/models"
	"guestsnap/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	qrcode "github.com/skip2/go-qrcode"
)

type AlbumInfo struct {
	ID                uint64 `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	Subtitle          string `json:"subtitle"`
	ModerationEnabled bool   `json:"moderation_enabled"`
	IsPrivate         bool   `json:"is_private"`
	HeroPhotoID       uint64 `json:"hero_photo_id"`
	PhotoCount        int64  `json:"photo_count"`
	PendingCount      int64  `json:"pending_count"`
}

type AlbumCreateRequest struct {
	Name              string `form:"name" binding:"required"`
	Description       string `form:"description"`
	ModerationEnabled bool   `form:"moderation_enabled"`
	IsPrivate         bool   `form:"is_private"`
}

type AlbumSaveRequest struct {
	ID          uint64 `form:"id" binding:"required"`
	Name        string `form:"name" binding:"required"`
	Description string `form:"description"`
	IsPrivate   bool   `form:"is_private"`
	HeroPhotoID uint64 `form:"hero_photo_id"`
}

type AlbumIDRequest struct {
	AlbumID uint64 `form:"album_id" binding:"required"`
}

type AlbumShareRequest struct {
	AlbumID uint64 `form:"album_id" binding:"required"`
	Expires int64  `form:"expires"` // seconds from now, 0 means never
}

type AlbumShareResponse struct {
	Error string `json:"error"`
	Path  string `json:"path"`
}

func AlbumList(c *gin.Context, user *models.User) {
	rows, err := db.Instance.
		Table("albums").
		Select("albums.id, albums.name, albums.description, albums.moderation_enabled, albums.is_private, albums.hero_photo_id, "+
			"count(photos.id), sum(case when photos.approved = 0 then 1 else 0 end), "+
			"ifnull(min(photos.created_at), 0), ifnull(max(photos.created_at), 0)").
		Joins("left join photos on photos.album_id = albums.id").
		Where("albums.user_id = ?", user.ID).
		Group("albums.id, albums.name, albums.description, albums.moderation_enabled, albums.is_private, albums.hero_photo_id").
		Order("albums.created_at DESC").
		Rows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error 1"})
		return
	}
	defer rows.Close()
	result := []AlbumInfo{}
	var minDate, maxDate int64
	for rows.Next() {
		albumInfo := AlbumInfo{}
		heroPhotoID := &albumInfo.HeroPhotoID
		pendingCount := &albumInfo.PendingCount
		if err = rows.Scan(&albumInfo.ID, &albumInfo.Name, &albumInfo.Description, &albumInfo.ModerationEnabled,
			&albumInfo.IsPrivate, &heroPhotoID, &albumInfo.PhotoCount, &pendingCount, &minDate, &maxDate); err != nil {

			c.JSON(http.StatusInternalServerError, Response{"DB error 2"})
			return
		}
		albumInfo.Subtitle = utils.GetDatesString(minDate, maxDate)
		result = append(result, albumInfo)
	}
	c.JSON(http.StatusOK, result)
}

func AlbumCreate(c *gin.Context, user *models.User) {
	postReq := AlbumCreateRequest{}
	err := c.ShouldBindWith(&postReq, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	album := models.Album{
		Name:              postReq.Name,
		Description:       postReq.Description,
		ModerationEnabled: postReq.ModerationEnabled,
		IsPrivate:         postReq.IsPrivate,
		UserID:            user.ID,
	}
	if err = db.Instance.Create(&album).Error; err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error 1"})
		return
	}
	c.JSON(http.StatusOK, AlbumInfo{
		ID:                album.ID,
		Name:              album.Name,
		Description:       album.Description,
		ModerationEnabled: album.ModerationEnabled,
		IsPrivate:         album.IsPrivate,
	})
}

// AlbumSave updates the album's presentation fields. The moderation setting
// is deliberately absent here: it is fixed at creation time.
func AlbumSave(c *gin.Context, user *models.User) {
	postReq := AlbumSaveRequest{}
	err := c.ShouldBindWith(&postReq, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if !userOwnsAlbum(user.ID, postReq.ID) {
		c.JSON(http.StatusUnauthorized, Response{"access denied"})
		return
	}
	update := map[string]interface{}{
		"name":        postReq.Name,
		"description": postReq.Description,
		"is_private":  postReq.IsPrivate,
	}
	if postReq.HeroPhotoID > 0 {
		update["hero_photo_id"] = postReq.HeroPhotoID
	}
	err = db.Instance.Model(&models.Album{}).Where("id = ?", postReq.ID).Updates(update).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error 1"})
		return
	}
	c.JSON(http.StatusOK, Response{})
}

func AlbumDelete(c *gin.Context, user *models.User) {
	postReq := AlbumIDRequest{}
	err := c.ShouldBindWith(&postReq, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if !userOwnsAlbum(user.ID, postReq.AlbumID) {
		c.JSON(http.StatusUnauthorized, Response{"access denied"})
		return
	}
	// Photo binaries go first so nothing is orphaned in the buckets
	photos := []models.Photo{}
	if err = db.Instance.Preload("Bucket").Where("album_id = ?", postReq.AlbumID).Find(&photos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error 1"})
		return
	}
	failed := []uint64{}
	for _, photo := range photos {
		if err = gate.Delete(photo.ID); err != nil {
			failed = append(failed, photo.ID)
		}
	}
	err = db.Instance.Exec("delete from album_shares where album_id = ?", postReq.AlbumID).Error
	if err == nil {
		err = db.Instance.Exec("delete from guests where album_id = ?", postReq.AlbumID).Error
	}
	if err == nil {
		err = db.Instance.Exec("delete from albums where id = ?", postReq.AlbumID).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error 2"})
		return
	}
	feeds.Drop(postReq.AlbumID)
	c.JSON(http.StatusOK, MultiResponse{"", failed})
}

// AlbumShareCreate returns the public /w/ path for the album, creating the
// share token on first use. The QR code shown to guests encodes this path.
func AlbumShareCreate(c *gin.Context, user *models.User) {
	postReq := AlbumShareRequest{}
	err := c.ShouldBindWith(&postReq, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if !userOwnsAlbum(user.ID, postReq.AlbumID) {
		c.JSON(http.StatusUnauthorized, Response{"access denied"})
		return
	}
	share, err := getOrCreateShare(user.ID, postReq.AlbumID, postReq.Expires)
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error 1"})
		return
	}
	c.JSON(http.StatusOK, AlbumShareResponse{Path: "/w/album/" + share.Token + "/"})
}

// getOrCreateShare reuses the album's active share link, replacing it only
// when expired. Guests keep scanning the same QR code all event long.
func getOrCreateShare(userID, albumID uint64, expires int64) (models.AlbumShare, error) {
	share := models.AlbumShare{}
	result := db.Instance.First(&share, "user_id = ? AND album_id = ?", userID, albumID)
	if result.Error == nil && !share.Expired() {
		return share, nil
	}
	if share.ID > 0 {
		db.Instance.Delete(&share)
	}
	share = models.NewAlbumShare(userID, albumID, expires)
	return share, db.Instance.Create(&share).Error
}

// AlbumShareQR renders the share link as a QR code PNG, ready for printing
// on table cards.
func AlbumShareQR(c *gin.Context, user *models.User) {
	postReq := AlbumShareRequest{}
	err := c.ShouldBindWith(&postReq, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if !userOwnsAlbum(user.ID, postReq.AlbumID) {
		c.JSON(http.StatusUnauthorized, Response{"access denied"})
		return
	}
	share, err := getOrCreateShare(user.ID, postReq.AlbumID, postReq.Expires)
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error 1"})
		return
	}
	link := strings.TrimSuffix(config.SITE_URL, "/") + "/w/album/" + share.Token + "/"
	png, err := qrcode.Encode(link, qrcode.Medium, 512)
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
