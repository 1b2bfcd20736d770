// Package assignment hands each requesting device one find-this-person
// challenge target at a time, drawn from approved guests with a reference
// photo. The device to guest mapping lives in an injected cache and is
// mirrored in the guest's Assigned flag; the flag is the only state other
// devices can observe.
package assignment

import (
	"errors"
	"fmt"
	"strconv"

	"guestsnap/models"

	cache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

var (
	ErrAlbumNotFound     = errors.New("album not found")
	ErrGuestNotFound     = errors.New("guest not found")
	ErrNoGuestsAvailable = errors.New("no guests available for assignment")
)

type Coordinator struct {
	db      *gorm.DB
	devices *cache.Cache
}

func NewCoordinator(db *gorm.DB, devices *cache.Cache) *Coordinator {
	return &Coordinator{db: db, devices: devices}
}

// NewDeviceCache builds the cache a Coordinator keeps device assignments in.
// Entries never expire on their own - assignments are cleared explicitly.
func NewDeviceCache() *cache.Cache {
	return cache.New(cache.NoExpiration, 0)
}

func assignKey(albumID uint64, deviceID string) string {
	return "assign:" + strconv.FormatUint(albumID, 10) + ":" + deviceID
}

func lastKey(albumID uint64, deviceID string) string {
	return "last:" + strconv.FormatUint(albumID, 10) + ":" + deviceID
}

// GetUnassignedGuest picks an eligible guest for the device and marks it
// assigned. Candidates are approved, unassigned, photo-bearing guests,
// excluding the device's previous target when one is remembered. When the
// pool is exhausted all assignments in the album are reset and the query
// runs once more; a final pass drops the exclusion, so a device can be
// re-served its own previous target as a last resort.
func (c *Coordinator) GetUnassignedGuest(albumID uint64, deviceID string) (models.Guest, error) {
	var count int64
	if err := c.db.Model(&models.Album{}).Where("id = ?", albumID).Count(&count).Error; err != nil {
		return models.Guest{}, fmt.Errorf("album lookup: %w", err)
	}
	if count == 0 {
		return models.Guest{}, ErrAlbumNotFound
	}

	exclude := c.lastServed(albumID, deviceID)
	guest, err := c.pickAndMark(albumID, deviceID, exclude)
	if err == nil {
		return guest, nil
	}
	if !errors.Is(err, ErrNoGuestsAvailable) {
		return models.Guest{}, err
	}
	// Pool exhausted - reset the album and try once more
	if err := c.ResetAllAssignments(albumID); err != nil {
		return models.Guest{}, err
	}
	guest, err = c.pickAndMark(albumID, deviceID, exclude)
	if err == nil || !errors.Is(err, ErrNoGuestsAvailable) {
		return guest, err
	}
	if exclude == 0 {
		return models.Guest{}, ErrNoGuestsAvailable
	}
	// Last resort: allow the device's own previous target again
	return c.pickAndMark(albumID, deviceID, 0)
}

// pickAndMark walks the eligible candidates in store order and claims the
// first one whose Assigned flag it manages to flip. The flip is a single
// conditional update, so two devices racing over the same candidate cannot
// both claim it within one pass - the loser just moves on to the next row.
func (c *Coordinator) pickAndMark(albumID uint64, deviceID string, exclude uint64) (models.Guest, error) {
	query := c.db.
		Where("album_id = ? AND approved = ? AND assigned = ? AND photo_url <> ''", albumID, true, false)
	if exclude > 0 {
		query = query.Where("id <> ?", exclude)
	}
	var candidates []models.Guest
	if err := query.Find(&candidates).Error; err != nil {
		return models.Guest{}, fmt.Errorf("candidate query: %w", err)
	}
	for _, guest := range candidates {
		result := c.db.Model(&models.Guest{}).
			Where("id = ? AND assigned = ?", guest.ID, false).
			Update("assigned", true)
		if result.Error != nil {
			return models.Guest{}, fmt.Errorf("mark assigned: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// Somebody else claimed this guest first
			continue
		}
		guest.Assigned = true
		c.rememberAssignment(albumID, guest.ID, deviceID)
		return guest, nil
	}
	return models.Guest{}, ErrNoGuestsAvailable
}

// StoreAssignment marks the guest assigned remotely and records the
// device to guest mapping. The local mapping is only written once the
// remote mark succeeded.
func (c *Coordinator) StoreAssignment(albumID, guestID uint64, deviceID string) error {
	result := c.db.Model(&models.Guest{}).
		Where("id = ? AND album_id = ?", guestID, albumID).
		Update("assigned", true)
	if result.Error != nil {
		return fmt.Errorf("mark assigned: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrGuestNotFound
	}
	c.rememberAssignment(albumID, guestID, deviceID)
	return nil
}

func (c *Coordinator) rememberAssignment(albumID, guestID uint64, deviceID string) {
	c.devices.Set(assignKey(albumID, deviceID), guestID, cache.NoExpiration)
	c.devices.Set(lastKey(albumID, deviceID), guestID, cache.NoExpiration)
}

// CurrentAssignment returns the guest currently assigned to the device, if any.
func (c *Coordinator) CurrentAssignment(albumID uint64, deviceID string) (uint64, bool) {
	v, ok := c.devices.Get(assignKey(albumID, deviceID))
	if !ok {
		return 0, false
	}
	return v.(uint64), true
}

func (c *Coordinator) lastServed(albumID uint64, deviceID string) uint64 {
	v, ok := c.devices.Get(lastKey(albumID, deviceID))
	if !ok {
		return 0
	}
	return v.(uint64)
}

// ClearAssignment releases the device's current target, clearing the remote
// flag before dropping the local mapping. Calling it with no current
// assignment is a no-op.
func (c *Coordinator) ClearAssignment(albumID uint64, deviceID string) error {
	guestID, ok := c.CurrentAssignment(albumID, deviceID)
	if !ok {
		return nil
	}
	err := c.db.Model(&models.Guest{}).
		Where("id = ?", guestID).
		Update("assigned", false).Error
	if err != nil {
		// Local mapping is kept so a retry can release the guest
		return fmt.Errorf("clear assigned flag: %w", err)
	}
	c.devices.Delete(assignKey(albumID, deviceID))
	return nil
}

// ResetAllAssignments sets assigned=false for every guest in the album.
// Used when the candidate pool is exhausted and as the explicit
// "restart game" action.
func (c *Coordinator) ResetAllAssignments(albumID uint64) error {
	err := c.db.Model(&models.Guest{}).
		Where("album_id = ?", albumID).
		Update("assigned", false).Error
	if err != nil {
		return fmt.Errorf("reset assignments: %w", err)
	}
	return nil
}
