// Package moderation enforces photo visibility: non-owners only ever see
// approved photos, and the album owner gets the approve/reject/hide/show
// and delete actions.
package moderation

import (
	"errors"
	"fmt"
	"log"

	"guestsnap/models"
	"guestsnap/realtime"
	"guestsnap/storage"
	"guestsnap/utils"

	"gorm.io/gorm"
)

var ErrPhotoNotFound = errors.New("photo not found")

type Gate struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewGate(db *gorm.DB, hub *realtime.Hub) *Gate {
	return &Gate{db: db, hub: hub}
}

// ListVisible returns the album's photos in insertion order. The owner sees
// everything; everyone else only approved photos.
func (g *Gate) ListVisible(albumID uint64, requesterIsOwner bool) ([]models.Photo, error) {
	query := g.db.Where("album_id = ?", albumID)
	if !requesterIsOwner {
		query = query.Where("approved = ?", true)
	}
	var photos []models.Photo
	if err := query.Order("created_at, id").Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return photos, nil
}

// ListPending returns the photos awaiting review. Owner-only.
func (g *Gate) ListPending(albumID uint64) ([]models.Photo, error) {
	var photos []models.Photo
	err := g.db.Where("album_id = ? AND approved = ?", albumID, false).
		Order("created_at, id").Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	return photos, nil
}

// Moderate sets the photo's approved flag and publishes the change.
func (g *Gate) Moderate(photoID uint64, approve bool) error {
	photo, err := g.load(photoID)
	if err != nil {
		return err
	}
	if err := g.db.Model(&models.Photo{}).Where("id = ?", photoID).Update("approved", approve).Error; err != nil {
		return fmt.Errorf("moderate photo: %w", err)
	}
	wasApproved := photo.Approved
	photo.Approved = approve
	g.hub.Publish(realtime.Event{Type: realtime.EventUpdate, Photo: photo, WasApproved: wasApproved})
	return nil
}

// ToggleVisibility flips the approved flag with a single conditional update,
// so two concurrent toggles cannot both read the same starting value. Two
// sequential toggles restore the original state.
func (g *Gate) ToggleVisibility(photoID uint64) error {
	result := g.db.Model(&models.Photo{}).
		Where("id = ?", photoID).
		Update("approved", gorm.Expr("NOT approved"))
	if result.Error != nil {
		return fmt.Errorf("toggle visibility: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPhotoNotFound
	}
	photo, err := g.load(photoID)
	if err != nil {
		return err
	}
	g.hub.Publish(realtime.Event{Type: realtime.EventUpdate, Photo: photo, WasApproved: !photo.Approved})
	return nil
}

// Delete removes the photo row and then tries to remove the two backing
// binaries. Binary cleanup is best effort: a failure (or a URL that cannot
// be mapped back to a storage path) is logged and never fails the deletion.
func (g *Gate) Delete(photoID uint64) error {
	photo, err := g.load(photoID)
	if err != nil {
		return err
	}
	if err := g.db.Delete(&models.Photo{}, photoID).Error; err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	g.cleanupBinaries(&photo)
	g.hub.Publish(realtime.Event{Type: realtime.EventDelete, Photo: photo, WasApproved: photo.Approved})
	return nil
}

func (g *Gate) load(photoID uint64) (models.Photo, error) {
	var photo models.Photo
	err := g.db.Joins("Bucket").First(&photo, "photos.id = ?", photoID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Photo{}, ErrPhotoNotFound
	}
	if err != nil {
		return models.Photo{}, fmt.Errorf("load photo: %w", err)
	}
	return photo, nil
}

func (g *Gate) cleanupBinaries(photo *models.Photo) {
	st := storage.StorageFrom(&photo.Bucket)
	if st == nil {
		log.Printf("Photo %d: no storage for bucket %d, skipping binary cleanup", photo.ID, photo.BucketID)
		return
	}
	for _, u := range []string{photo.PublicURL, photo.ThumbURL} {
		if u == "" {
			continue
		}
		path := utils.StoragePathFromURL(u, photo.Bucket.Path)
		if path == "" {
			log.Printf("Photo %d: cannot derive storage path from %q, skipping", photo.ID, u)
			continue
		}
		if err := st.Delete(path); err != nil {
			log.Printf("Photo %d: binary delete error for %s: %v", photo.ID, path, err)
		}
		if err := st.DeleteRemoteFile(path); err != nil {
			log.Printf("Photo %d: remote binary delete error for %s: %v", photo.ID, path, err)
		}
	}
}
