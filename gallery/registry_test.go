package gallery

import (
	"testing"

	"guestsnap/models"
	"guestsnap/realtime"
)

func seedWith(photos []models.Photo) func() ([]models.Photo, error) {
	return func() ([]models.Photo, error) {
		return photos, nil
	}
}

func TestRegistry_SharedFeed(t *testing.T) {
	hub := realtime.NewHub()
	registry := NewRegistry(hub)
	defer registry.Drop(1)

	seed := []models.Photo{{ID: 1, Approved: true}, {ID: 2, Approved: true}}
	first, err := registry.Slideshow(1, seedWith(seed))
	if err != nil {
		t.Fatal(err)
	}
	second, err := registry.Slideshow(1, seedWith(nil))
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("same album should share one feed")
	}
	if first.Len() != 2 {
		t.Errorf("feed seeded with %d photos, want 2", first.Len())
	}

	other, err := registry.Slideshow(2, seedWith(nil))
	if err != nil {
		t.Fatal(err)
	}
	defer registry.Drop(2)
	if other == first {
		t.Error("different albums must not share a feed")
	}
}

func TestRegistry_ShowSharesCursor(t *testing.T) {
	hub := realtime.NewHub()
	registry := NewRegistry(hub)
	defer registry.Drop(5)

	seed := []models.Photo{{ID: 1, Approved: true}, {ID: 2, Approved: true}, {ID: 3, Approved: true}}
	show, err := registry.Show(5, seedWith(seed))
	if err != nil {
		t.Fatal(err)
	}
	show.Next()
	again, err := registry.Show(5, seedWith(nil))
	if err != nil {
		t.Fatal(err)
	}
	if again != show {
		t.Fatal("same album should share one slideshow")
	}
	if again.Index() != 1 {
		t.Errorf("index = %d, want 1", again.Index())
	}
	if !again.Playing() {
		t.Error("registry slideshow should be playing")
	}
}

func TestRegistry_DropStopsFolding(t *testing.T) {
	hub := realtime.NewHub()
	registry := NewRegistry(hub)

	feed, err := registry.Slideshow(9, seedWith(nil))
	if err != nil {
		t.Fatal(err)
	}
	registry.Drop(9)
	if hub.Subscribers(9) != 0 {
		t.Error("dropped feed should have unsubscribed")
	}
	replacement, err := registry.Slideshow(9, seedWith(nil))
	if err != nil {
		t.Fatal(err)
	}
	defer registry.Drop(9)
	if replacement == feed {
		t.Error("drop should forget the old feed")
	}
}
