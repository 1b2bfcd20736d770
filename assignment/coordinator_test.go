package assignment

import (
	"fmt"
	"strings"
	"testing"

	"guestsnap/models"
	"guestsnap/storage"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&storage.Bucket{}, &models.User{}, &models.Album{}, &models.Guest{}, &models.Photo{}))
	return db
}

func newTestCoordinator(t *testing.T) (*Coordinator, *gorm.DB) {
	db := openTestDB(t)
	return NewCoordinator(db, NewDeviceCache()), db
}

func createAlbum(t *testing.T, db *gorm.DB) models.Album {
	t.Helper()
	user := models.User{Name: "owner", Email: t.Name() + "@example.com"}
	require.NoError(t, db.Create(&user).Error)
	album := models.Album{UserID: user.ID, Name: "reception"}
	require.NoError(t, db.Create(&album).Error)
	return album
}

func createGuest(t *testing.T, db *gorm.DB, albumID uint64, name string, approved bool, photoURL string) models.Guest {
	t.Helper()
	guest := models.Guest{AlbumID: albumID, Name: name, Approved: approved, PhotoURL: photoURL}
	require.NoError(t, db.Create(&guest).Error)
	return guest
}

func TestGetUnassignedGuestMarksAndReturnsEligible(t *testing.T) {
	c, db := newTestCoordinator(t)
	album := createAlbum(t, db)
	createGuest(t, db, album.ID, "no photo", true, "")
	createGuest(t, db, album.ID, "pending", false, "/media/guest/1/2.jpg")
	eligible := createGuest(t, db, album.ID, "ana", true, "/media/guest/1/3.jpg")

	got, err := c.GetUnassignedGuest(album.ID, "device-a")
	require.NoError(t, err)
	require.Equal(t, eligible.ID, got.ID)
	require.True(t, got.Approved)
	require.True(t, got.Assigned)
	require.NotEmpty(t, got.PhotoURL)

	var stored models.Guest
	require.NoError(t, db.First(&stored, eligible.ID).Error)
	require.True(t, stored.Assigned, "assigned flag must be mirrored in the store")
}

func TestGetUnassignedGuestAlbumMissing(t *testing.T) {
	c, _ := newTestCoordinator(t)
	_, err := c.GetUnassignedGuest(12345, "device-a")
	require.ErrorIs(t, err, ErrAlbumNotFound)
}

func TestGetUnassignedGuestNoEligibleGuests(t *testing.T) {
	c, db := newTestCoordinator(t)
	album := createAlbum(t, db)
	createGuest(t, db, album.ID, "unapproved", false, "/media/guest/1/1.jpg")
	createGuest(t, db, album.ID, "photoless", true, "")

	_, err := c.GetUnassignedGuest(album.ID, "device-a")
	require.ErrorIs(t, err, ErrNoGuestsAvailable)
}

func TestGetUnassignedGuestAvoidsPreviousTarget(t *testing.T) {
	c, db := newTestCoordinator(t)
	album := createAlbum(t, db)
	g1 := createGuest(t, db, album.ID, "first", true, "/media/guest/1/1.jpg")
	g2 := createGuest(t, db, album.ID, "second", true, "/media/guest/1/2.jpg")

	first, err := c.GetUnassignedGuest(album.ID, "device-a")
	require.NoError(t, err)
	require.NoError(t, c.ClearAssignment(album.ID, "device-a"))

	second, err := c.GetUnassignedGuest(album.ID, "device-a")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID, "previous target must be excluded while alternatives exist")
	require.ElementsMatch(t, []uint64{g1.ID, g2.ID}, []uint64{first.ID, second.ID})
}

// An album with exactly one eligible guest: after device A takes it, device B
// triggers the reset pass and legally receives the same guest. This is the
// documented tolerated outcome of the non-transactional store, not a bug.
func TestSingleGuestServedToSecondDeviceAfterReset(t *testing.T) {
	c, db := newTestCoordinator(t)
	album := createAlbum(t, db)
	only := createGuest(t, db, album.ID, "solo", true, "/media/guest/1/1.jpg")

	a, err := c.GetUnassignedGuest(album.ID, "device-a")
	require.NoError(t, err)
	require.Equal(t, only.ID, a.ID)

	b, err := c.GetUnassignedGuest(album.ID, "device-b")
	require.NoError(t, err)
	require.Equal(t, only.ID, b.ID)
}

// A device whose previous target is the only guest left gets it back on the
// final pass without the exclusion.
func TestPreviousTargetReservedAsLastResort(t *testing.T) {
	c, db := newTestCoordinator(t)
	album := createAlbum(t, db)
	only := createGuest(t, db, album.ID, "solo", true, "/media/guest/1/1.jpg")

	first, err := c.GetUnassignedGuest(album.ID, "device-a")
	require.NoError(t, err)
	require.Equal(t, only.ID, first.ID)
	require.NoError(t, c.ClearAssignment(album.ID, "device-a"))

	again, err := c.GetUnassignedGuest(album.ID, "device-a")
	require.NoError(t, err)
	require.Equal(t, only.ID, again.ID)
}

func TestResetAllAssignments(t *testing.T) {
	c, db := newTestCoordinator(t)
	album := createAlbum(t, db)
	for i := 0; i < 3; i++ {
		g := createGuest(t, db, album.ID, fmt.Sprintf("guest-%d", i), true, "/media/guest/1/p.jpg")
		require.NoError(t, db.Model(&models.Guest{}).Where("id = ?", g.ID).Update("assigned", true).Error)
	}

	require.NoError(t, c.ResetAllAssignments(album.ID))

	var guests []models.Guest
	require.NoError(t, db.Where("album_id = ?", album.ID).Find(&guests).Error)
	require.Len(t, guests, 3)
	for _, g := range guests {
		require.False(t, g.Assigned)
	}
}

func TestClearAssignmentIdempotent(t *testing.T) {
	c, db := newTestCoordinator(t)
	album := createAlbum(t, db)
	guest := createGuest(t, db, album.ID, "ana", true, "/media/guest/1/1.jpg")

	_, err := c.GetUnassignedGuest(album.ID, "device-a")
	require.NoError(t, err)

	require.NoError(t, c.ClearAssignment(album.ID, "device-a"))
	var stored models.Guest
	require.NoError(t, db.First(&stored, guest.ID).Error)
	require.False(t, stored.Assigned)
	_, ok := c.CurrentAssignment(album.ID, "device-a")
	require.False(t, ok)

	// Second clear with nothing outstanding is a no-op
	require.NoError(t, c.ClearAssignment(album.ID, "device-a"))
	require.NoError(t, db.First(&stored, guest.ID).Error)
	require.False(t, stored.Assigned)
}

func TestStoreAssignment(t *testing.T) {
	c, db := newTestCoordinator(t)
	album := createAlbum(t, db)
	guest := createGuest(t, db, album.ID, "ana", true, "/media/guest/1/1.jpg")

	require.NoError(t, c.StoreAssignment(album.ID, guest.ID, "device-a"))

	var stored models.Guest
	require.NoError(t, db.First(&stored, guest.ID).Error)
	require.True(t, stored.Assigned)
	id, ok := c.CurrentAssignment(album.ID, "device-a")
	require.True(t, ok)
	require.Equal(t, guest.ID, id)

	require.ErrorIs(t, c.StoreAssignment(album.ID, 99999, "device-a"), ErrGuestNotFound)
}
