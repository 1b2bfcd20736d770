package models

type Album struct {
	ID          uint64 `gorm:"primaryKey"`
	UserID      uint64 `gorm:"not null;index:user_album_created,priority:1;"`
	User        User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   int64  `gorm:"index:user_album_created,priority:2"`
	Name        string `gorm:"type:varchar(300)"`
	Description string `gorm:"type:varchar(2000)"`
	// ModerationEnabled is fixed at creation time and consulted only when a
	// photo is inserted - flipping it later does not re-moderate old photos.
	ModerationEnabled bool `gorm:"not null;default:0"`
	IsPrivate         bool `gorm:"not null;default:0"`
	HeroPhotoID       *uint64
	HeroPhoto         *Photo `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}
