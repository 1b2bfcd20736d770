package processing

import (
	"log"
	"strconv"
	"strings"

	"guestsnap/db"
	"guestsnap/faces"
	"guestsnap/models"
	"guestsnap/realtime"
	"guestsnap/storage"
	"guestsnap/utils"
)

// matchGuests figures out which registered guests actually appear in a
// challenge photo and stores their ids in the photo's metadata. The target
// name was recorded at submit time, so viewers can compare intent against
// outcome.
type matchGuests struct {
	matcher faces.Matcher
}

func (t *matchGuests) getName() string {
	return "matchguests"
}

func (t *matchGuests) shouldHandle(photo *models.Photo) bool {
	return photo.IsChallenge() && strings.HasPrefix(photo.MimeType, "image/")
}

func (t *matchGuests) process(photo *models.Photo, st storage.StorageAPI) int {
	guests := []models.Guest{}
	err := db.Instance.Where("album_id = ? and approved = 1 and photo_url <> ''", photo.AlbumID).Find(&guests).Error
	if err != nil {
		log.Printf("Challenge %d: guest load error: %v", photo.ID, err)
		return Failed
	}
	refs := map[uint64]string{}
	for _, guest := range guests {
		path := utils.StoragePathFromURL(guest.PhotoURL, photo.Bucket.Path)
		if path == "" {
			continue
		}
		if err = st.EnsureLocalFile(path); err != nil {
			log.Printf("Challenge %d: cannot fetch reference for guest %d: %v", photo.ID, guest.ID, err)
			continue
		}
		defer st.ReleaseLocalFile(path)
		refs[guest.ID] = st.GetFullPath(path)
	}
	if len(refs) == 0 {
		return Skipped
	}
	if err = st.EnsureLocalFile(photo.GetPath()); err != nil {
		log.Printf("Challenge %d: cannot fetch photo: %v", photo.ID, err)
		return FailedStorage
	}
	defer st.ReleaseLocalFile(photo.GetPath())
	found, err := t.matcher.MatchGuests(st.GetFullPath(photo.GetPath()), refs)
	if err != nil {
		log.Printf("Challenge %d: face matching error: %v", photo.ID, err)
		return Failed
	}
	ids := make([]string, 0, len(found))
	for _, id := range found {
		ids = append(ids, strconv.FormatUint(id, 10))
	}
	if photo.Metadata == nil {
		photo.Metadata = map[string]string{}
	}
	wasApproved := photo.Approved
	photo.Metadata[models.MetaFoundGuestIDs] = strings.Join(ids, ",")
	if err = db.Instance.Model(photo).Update("metadata", photo.Metadata).Error; err != nil {
		log.Printf("Challenge %d: metadata save error: %v", photo.ID, err)
		return Failed
	}
	if hub != nil {
		hub.Publish(realtime.Event{Type: realtime.EventUpdate, Photo: *photo, WasApproved: wasApproved})
	}
	return Done
}
