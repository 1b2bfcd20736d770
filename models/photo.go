package models

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"guestsnap/storage"

	"github.com/google/uuid"
	"github.com/zsefvlol/timezonemapper"
	"gorm.io/gorm"
)

// Metadata keys used by the find-the-guest game
const (
	MetaChallenge     = "challenge"       // "1" when the photo was taken for a challenge
	MetaTargetName    = "target_name"     // display name of the guest the device had to find
	MetaFoundGuestIDs = "found_guest_ids" // comma-separated guest ids recognised in the photo
)

type Photo struct {
	ID           uint64 `gorm:"primaryKey"`
	AlbumID      uint64 `gorm:"not null;index:album_photo_created,priority:1"`
	Album        Album  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt    int64  `gorm:"index:album_photo_created,priority:2"`
	UpdatedAt    int64
	UploaderName string `gorm:"type:varchar(100)"`
	GuestID      *uint64
	Guest        *Guest `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	RemoteID     string `gorm:"type:varchar(100);index:uniq_photo_remote_id,unique"`
	Name         string `gorm:"type:varchar(300)"`
	MimeType     string `gorm:"type:varchar(50)"`
	Size         int64
	ThumbSize    int64
	Width        uint16
	Height       uint16
	ThumbWidth   uint16
	ThumbHeight  uint16
	GpsLat       *float64 `gorm:"type:double"`
	GpsLong      *float64 `gorm:"type:double"`
	// Approved defaults to the owning album's moderation setting at insert
	// time. Non-owners must never see a photo with Approved=false.
	Approved  bool   `gorm:"not null;default:0"`
	PublicURL string `gorm:"type:varchar(2000)"`
	ThumbURL  string `gorm:"type:varchar(2000)"`
	BucketID  uint64
	Bucket    storage.Bucket    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Metadata  map[string]string `gorm:"serializer:json;type:text"`
}

// NewPhoto creates an unsaved photo row for an album. The approval default
// derives from the album's moderation setting here, at insert time, and is
// never re-evaluated when the setting changes later.
func NewPhoto(album *Album, uploaderName, name, mimeType string) Photo {
	return Photo{
		AlbumID:      album.ID,
		UploaderName: uploaderName,
		RemoteID:     uuid.NewString(),
		Name:         name,
		MimeType:     mimeType,
		Approved:     !album.ModerationEnabled,
	}
}

// GetPath returns the bucket-relative path of the full-resolution binary,
// for example: album/56/210.jpg
func (p *Photo) GetPath() string {
	return p.GetPathOrThumb(false)
}

func (p *Photo) GetThumbPath() string {
	return p.GetPathOrThumb(true)
}

func (p *Photo) GetPathOrThumb(thumb bool) string {
	path := "album/" + strconv.FormatUint(p.AlbumID, 10) + "/" + strconv.FormatUint(p.ID, 10)
	if thumb {
		// Thumbs are always JPEG
		path += "_thumb.jpg"
	} else {
		path += strings.ToLower(filepath.Ext(p.Name))
	}
	return path
}

func (p *Photo) BeforeSave(tx *gorm.DB) (err error) {
	// Restrict the characters in Name
	var name strings.Builder
	for i, c := range p.Name {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
			(c == '.' && i > 0) || (c == '-') || (c == '_') {

			name.WriteRune(c)
		} else {
			name.WriteString("_")
		}
	}
	p.Name = name.String()
	return
}

// CreatedTimeInLocation returns the capture time in the timezone of the
// photo's GPS position when one was recorded, local time otherwise.
func (p *Photo) CreatedTimeInLocation() time.Time {
	t := time.Unix(p.CreatedAt, 0)
	if p.GpsLat == nil || p.GpsLong == nil {
		return t
	}
	zone, err := time.LoadLocation(timezonemapper.LatLngToTimezoneString(*p.GpsLat, *p.GpsLong))
	if err != nil || zone == nil {
		return t
	}
	return t.In(zone)
}

func (p *Photo) IsChallenge() bool {
	return p.Metadata[MetaChallenge] == "1"
}
