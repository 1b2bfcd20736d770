package push

import (
	"log"
	"strconv"

	"guestsnap/config"
	"guestsnap/db"
	"guestsnap/models"
)

func ownerToken(albumID uint64) (string, string) {
	album := models.Album{ID: albumID}
	if db.Instance.Preload("User").First(&album).Error != nil {
		log.Print("Cannot find album?")
		return "", ""
	}
	return album.User.PushToken, album.Name
}

// PhotoPending tells the album owner that uploads are waiting for review.
func PhotoPending(albumID uint64, count int) {
	if config.PUSH_SERVER == "" {
		return
	}
	token, albumName := ownerToken(albumID)
	if token == "" {
		return
	}
	what := strconv.Itoa(count) + " new photo"
	if count > 1 {
		what += "s"
	}
	notification := Notification{
		Type:  NotificationTypePendingPhotos,
		Title: "Album \"" + albumName + "\"",
		Body:  what + " waiting for review",
		Data: map[string]string{
			"album": strconv.FormatUint(albumID, 10),
		},
	}
	_ = notification.SendTo([]string{token})
}

// GuestRegistered tells the album owner that a guest signed up for the game.
func GuestRegistered(albumID uint64, guestName string) {
	if config.PUSH_SERVER == "" {
		return
	}
	token, albumName := ownerToken(albumID)
	if token == "" {
		return
	}
	notification := Notification{
		Type:  NotificationTypeNewGuest,
		Title: "Album \"" + albumName + "\"",
		Body:  guestName + " joined the guest game and awaits approval",
		Data: map[string]string{
			"album": strconv.FormatUint(albumID, 10),
		},
	}
	_ = notification.SendTo([]string{token})
}
