package gallery

import (
	"testing"
	"time"

	"guestsnap/models"
	"guestsnap/realtime"
)

func newTestShow(photos ...models.Photo) (*Slideshow, *Feed) {
	f := NewFeed(1, ModeSlideshow, photos, nil)
	s := NewSlideshow(f, time.Hour) // timer effectively disabled for tests
	return s, f
}

func TestSlideshowAdvanceWrapsAround(t *testing.T) {
	s, _ := newTestShow(photo(1, true), photo(2, true), photo(3, true))
	if s.Index() != 0 {
		t.Fatalf("initial index = %d", s.Index())
	}
	s.Next()
	s.Next()
	if s.Index() != 2 {
		t.Fatalf("index = %d, want 2", s.Index())
	}
	s.Next()
	if s.Index() != 0 {
		t.Errorf("index = %d after wrap, want 0", s.Index())
	}
}

func TestSlideshowAdvanceOnEmptyListIsNoop(t *testing.T) {
	s, _ := newTestShow()
	s.Next()
	if s.Index() != 0 {
		t.Errorf("index = %d, want 0", s.Index())
	}
	if _, ok := s.Current(); ok {
		t.Error("Current() returned a photo for an empty list")
	}
}

// List of 3, cursor at 2, the photo under the cursor is deleted: the index
// clamps to max(len-1, 0) = 1.
func TestSlideshowClampsOnShrink(t *testing.T) {
	s, f := newTestShow(photo(1, true), photo(2, true), photo(3, true))
	s.Next()
	s.Next()
	if s.Index() != 2 {
		t.Fatalf("index = %d, want 2", s.Index())
	}

	last, _ := f.At(2)
	f.Apply(realtime.Event{Type: realtime.EventDelete, Photo: last})

	if s.Index() != 1 {
		t.Errorf("index = %d after shrink, want 1", s.Index())
	}
}

func TestSlideshowClampsToZeroWhenEmptied(t *testing.T) {
	s, f := newTestShow(photo(1, true))
	f.Apply(realtime.Event{Type: realtime.EventDelete, Photo: photo(1, true)})
	if s.Index() != 0 {
		t.Errorf("index = %d, want 0", s.Index())
	}
}

func TestSlideshowGrowthLeavesIndexUnchanged(t *testing.T) {
	s, f := newTestShow(photo(1, true), photo(2, true))
	s.Next()
	f.Apply(realtime.Event{Type: realtime.EventInsert, Photo: photo(3, true)})
	if s.Index() != 1 {
		t.Errorf("index = %d after growth, want 1", s.Index())
	}
}

func TestSlideshowTimerAdvancesWhilePlaying(t *testing.T) {
	f := NewFeed(1, ModeSlideshow, []models.Photo{photo(1, true), photo(2, true)}, nil)
	s := NewSlideshow(f, 10*time.Millisecond)
	defer s.Stop()

	s.Play()
	deadline := time.After(time.Second)
	for s.Index() == 0 {
		select {
		case <-deadline:
			t.Fatal("slideshow never advanced while playing")
		case <-time.After(5 * time.Millisecond):
		}
	}

	s.Pause()
	if s.Playing() {
		t.Error("still playing after Pause")
	}
	idx := s.Index()
	time.Sleep(50 * time.Millisecond)
	if s.Index() != idx {
		t.Error("slideshow advanced while paused")
	}
}
