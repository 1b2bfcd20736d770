package gallery

import (
	"testing"
	"time"

	"guestsnap/models"
	"guestsnap/realtime"
)

func photo(id uint64, approved bool) models.Photo {
	return models.Photo{ID: id, AlbumID: 1, Approved: approved}
}

func ids(photos []models.Photo) []uint64 {
	out := make([]uint64, 0, len(photos))
	for _, p := range photos {
		out = append(out, p.ID)
	}
	return out
}

func TestFeedInsertAppendsInGalleryMode(t *testing.T) {
	f := NewFeed(1, ModeGallery, nil, nil)
	f.Apply(realtime.Event{Type: realtime.EventInsert, Photo: photo(1, true)})
	f.Apply(realtime.Event{Type: realtime.EventInsert, Photo: photo(2, true)})
	f.Apply(realtime.Event{Type: realtime.EventInsert, Photo: photo(3, true)})

	got := ids(f.Photos())
	want := []uint64{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("gallery order = %v, want %v", got, want)
		}
	}
}

func TestFeedIgnoresUnapprovedInserts(t *testing.T) {
	f := NewFeed(1, ModeGallery, nil, nil)
	f.Apply(realtime.Event{Type: realtime.EventInsert, Photo: photo(1, false)})
	if f.Len() != 0 {
		t.Errorf("unapproved insert must not appear, len = %d", f.Len())
	}
}

func TestFeedUpdateTransitions(t *testing.T) {
	f := NewFeed(1, ModeGallery, []models.Photo{photo(1, true), photo(2, true)}, nil)

	// hidden -> visible behaves like an approved insert
	f.Apply(realtime.Event{Type: realtime.EventUpdate, Photo: photo(3, true), WasApproved: false})
	if f.Len() != 3 {
		t.Fatalf("len = %d after approval update, want 3", f.Len())
	}

	// visible -> hidden removes by id
	f.Apply(realtime.Event{Type: realtime.EventUpdate, Photo: photo(1, false), WasApproved: true})
	got := ids(f.Photos())
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("after hide, list = %v, want [2 3]", got)
	}
}

func TestFeedDeleteRemovesRegardlessOfApproval(t *testing.T) {
	f := NewFeed(1, ModeGallery, []models.Photo{photo(1, true), photo(2, true)}, nil)
	f.Apply(realtime.Event{Type: realtime.EventDelete, Photo: photo(2, false)})
	got := ids(f.Photos())
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("after delete, list = %v, want [1]", got)
	}
	// Deleting an id that isn't in the list is a no-op
	f.Apply(realtime.Event{Type: realtime.EventDelete, Photo: photo(99, true)})
	if f.Len() != 1 {
		t.Errorf("len = %d, want 1", f.Len())
	}
}

func TestFeedDuplicateInsertRefreshesInPlace(t *testing.T) {
	f := NewFeed(1, ModeGallery, []models.Photo{photo(1, true)}, nil)
	updated := photo(1, true)
	updated.Name = "renamed.jpg"
	f.Apply(realtime.Event{Type: realtime.EventInsert, Photo: updated})
	if f.Len() != 1 {
		t.Fatalf("duplicate insert grew the list to %d", f.Len())
	}
	p, _ := f.At(0)
	if p.Name != "renamed.jpg" {
		t.Errorf("photo not refreshed in place: %+v", p)
	}
}

func TestFeedSlideshowInsertStaysInBounds(t *testing.T) {
	seed := []models.Photo{photo(1, true), photo(2, true), photo(3, true)}
	for i := 0; i < 50; i++ {
		f := NewFeed(1, ModeSlideshow, seed, nil)
		f.Apply(realtime.Event{Type: realtime.EventInsert, Photo: photo(100, true)})
		got := ids(f.Photos())
		if len(got) != 4 {
			t.Fatalf("len = %d, want 4", len(got))
		}
		found := false
		for _, id := range got {
			if id == 100 {
				found = true
			}
		}
		if !found {
			t.Fatalf("inserted photo missing from %v", got)
		}
	}
}

func TestFeedSubscribesAndFoldsHubEvents(t *testing.T) {
	hub := realtime.NewHub()
	f := NewFeed(1, ModeGallery, nil, hub)
	defer f.Close()

	hub.Publish(realtime.Event{Type: realtime.EventInsert, Photo: photo(1, true)})
	hub.Publish(realtime.Event{Type: realtime.EventInsert, Photo: photo(7, true)})

	deadline := time.After(time.Second)
	for f.Len() != 2 {
		select {
		case <-deadline:
			t.Fatalf("feed never folded hub events, len = %d", f.Len())
		case <-time.After(5 * time.Millisecond):
		}
	}
	got := ids(f.Photos())
	if got[0] != 1 || got[1] != 7 {
		t.Errorf("list = %v, want [1 7]", got)
	}
}

func TestFeedCloseStopsFolding(t *testing.T) {
	hub := realtime.NewHub()
	f := NewFeed(5, ModeGallery, nil, hub)
	f.Close()
	if n := hub.Subscribers(5); n != 0 {
		t.Errorf("subscription leaked: %d subscribers", n)
	}
	// Events after Close are discarded
	hub.Publish(realtime.Event{Type: realtime.EventInsert, Photo: models.Photo{ID: 1, AlbumID: 5, Approved: true}})
	if f.Len() != 0 {
		t.Errorf("closed feed still folded events")
	}
}
