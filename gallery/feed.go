// Package gallery keeps a client-held, ordered photo list consistent with
// photo change events for one album, without reloading the whole list on
// every event, and drives the auto-advancing slideshow over that list.
package gallery

import (
	"math/rand"
	"sync"

	"guestsnap/models"
	"guestsnap/realtime"
)

type Mode uint8

const (
	// ModeGallery appends newly visible photos at the end.
	ModeGallery Mode = iota
	// ModeSlideshow inserts newly visible photos at a uniformly random
	// position, so a late-arriving photo doesn't always land at a
	// predictable edge of the rotation.
	ModeSlideshow
)

// Feed folds insert/update/delete events into an ordered in-memory photo
// list. A Feed is bound to one album for its lifetime; switching albums
// means closing this Feed and creating a new one, which also swaps the
// underlying subscription. Events are applied exactly once, in the order
// received; ordering relative to server commit order is not guaranteed.
type Feed struct {
	mu     sync.Mutex
	photos []models.Photo
	mode   Mode

	albumID  uint64
	hub      *realtime.Hub
	sub      *realtime.Subscription
	done     chan struct{}
	onChange func(length int)
}

// NewFeed builds a feed seeded with the given photos. When hub is non-nil
// the feed subscribes to the album's events and folds them in until Close.
func NewFeed(albumID uint64, mode Mode, initial []models.Photo, hub *realtime.Hub) *Feed {
	f := &Feed{
		photos:  append([]models.Photo{}, initial...),
		mode:    mode,
		albumID: albumID,
		hub:     hub,
		done:    make(chan struct{}),
	}
	if hub != nil {
		f.sub = hub.Subscribe(albumID)
		go f.run()
	}
	return f
}

func (f *Feed) run() {
	for e := range f.sub.C {
		f.Apply(e)
	}
	close(f.done)
}

// Close tears the subscription down. Events already in flight are discarded.
func (f *Feed) Close() {
	if f.sub == nil {
		return
	}
	f.hub.Unsubscribe(f.sub)
	<-f.done
}

// SetOnChange registers a callback invoked (with the new length) after every
// mutation. Used by the slideshow to clamp its index when the list shrinks.
func (f *Feed) SetOnChange(fn func(length int)) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

// Apply folds one event into the list:
//   - INSERT of an approved photo becomes visible (append or random insert)
//   - UPDATE hidden->visible is treated like an approved insert
//   - UPDATE visible->hidden removes the photo
//   - DELETE removes the photo regardless of its approval state
//
// Unapproved inserts and duplicate ids are ignored.
func (f *Feed) Apply(e realtime.Event) {
	f.mu.Lock()
	switch e.Type {
	case realtime.EventInsert:
		if e.Photo.Approved {
			f.insertLocked(e.Photo)
		}
	case realtime.EventUpdate:
		if e.Photo.Approved {
			f.insertLocked(e.Photo)
		} else {
			f.removeLocked(e.Photo.ID)
		}
	case realtime.EventDelete:
		f.removeLocked(e.Photo.ID)
	}
	length := len(f.photos)
	fn := f.onChange
	f.mu.Unlock()
	if fn != nil {
		fn(length)
	}
}

func (f *Feed) insertLocked(photo models.Photo) {
	for i := range f.photos {
		if f.photos[i].ID == photo.ID {
			// Already visible - refresh in place
			f.photos[i] = photo
			return
		}
	}
	if f.mode == ModeSlideshow {
		at := rand.Intn(len(f.photos) + 1)
		f.photos = append(f.photos, models.Photo{})
		copy(f.photos[at+1:], f.photos[at:])
		f.photos[at] = photo
		return
	}
	f.photos = append(f.photos, photo)
}

func (f *Feed) removeLocked(photoID uint64) {
	for i := range f.photos {
		if f.photos[i].ID == photoID {
			f.photos = append(f.photos[:i], f.photos[i+1:]...)
			return
		}
	}
}

// Photos returns a copy of the current list.
func (f *Feed) Photos() []models.Photo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Photo{}, f.photos...)
}

func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.photos)
}

// At returns the photo at the given position.
func (f *Feed) At(i int) (models.Photo, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.photos) {
		return models.Photo{}, false
	}
	return f.photos[i], true
}

func (f *Feed) AlbumID() uint64 {
	return f.albumID
}
