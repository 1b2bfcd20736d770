package models

// Guest is a registered participant in an album's find-the-guest challenge.
// Created unapproved (by self-registration or organizer add); Approved flips
// by organizer action; Assigned mirrors the current challenge hand-out and
// is cleared on reset.
type Guest struct {
	ID        uint64 `gorm:"primaryKey"`
	AlbumID   uint64 `gorm:"not null;index:album_guest,priority:1"`
	Album     Album  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt int64
	UpdatedAt int64
	Name      string `gorm:"type:varchar(100);not null"`
	Email     string `gorm:"type:varchar(150)"`
	Phone     string `gorm:"type:varchar(30)"`
	Approved  bool   `gorm:"not null;default:0"`
	Assigned  bool   `gorm:"not null;default:0"`
	PhotoURL  string `gorm:"type:varchar(2000)"`
}

// Eligible reports whether the guest can be handed out as a challenge
// target: approved by the organizer and carrying a reference photo.
func (g *Guest) Eligible() bool {
	return g.Approved && g.PhotoURL != ""
}
