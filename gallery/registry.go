package gallery

import (
	"strconv"

	"guestsnap/models"
	"guestsnap/realtime"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// Registry holds one shared slideshow Feed per album, so every viewer of a
// shared album sees the same randomized order and the order survives
// individual page loads. Feeds are created lazily and dropped when the
// album goes away.
type Registry struct {
	hub   *realtime.Hub
	feeds cmap.ConcurrentMap[string, *Feed]
	shows cmap.ConcurrentMap[string, *Slideshow]
}

func NewRegistry(hub *realtime.Hub) *Registry {
	return &Registry{
		hub:   hub,
		feeds: cmap.New[*Feed](),
		shows: cmap.New[*Slideshow](),
	}
}

// Slideshow returns the album's shared slideshow feed, seeding it on first
// use with the photos the seed function loads.
func (r *Registry) Slideshow(albumID uint64, seed func() ([]models.Photo, error)) (*Feed, error) {
	key := strconv.FormatUint(albumID, 10)
	if feed, ok := r.feeds.Get(key); ok {
		return feed, nil
	}
	initial, err := seed()
	if err != nil {
		return nil, err
	}
	feed := NewFeed(albumID, ModeSlideshow, initial, r.hub)
	if !r.feeds.SetIfAbsent(key, feed) {
		// Lost the creation race - use the winner's feed
		feed.Close()
		feed, _ = r.feeds.Get(key)
	}
	return feed, nil
}

// Show returns the album's running slideshow, creating it (and the backing
// feed, if needed) on first use.
func (r *Registry) Show(albumID uint64, seed func() ([]models.Photo, error)) (*Slideshow, error) {
	key := strconv.FormatUint(albumID, 10)
	if show, ok := r.shows.Get(key); ok {
		return show, nil
	}
	feed, err := r.Slideshow(albumID, seed)
	if err != nil {
		return nil, err
	}
	show := NewSlideshow(feed, DefaultInterval)
	if !r.shows.SetIfAbsent(key, show) {
		show.Stop()
		show, _ = r.shows.Get(key)
	}
	show.Play()
	return show, nil
}

// Drop closes and forgets the album's slideshow and feed, if they exist.
func (r *Registry) Drop(albumID uint64) {
	key := strconv.FormatUint(albumID, 10)
	if show, ok := r.shows.Get(key); ok {
		r.shows.Remove(key)
		show.Stop()
	}
	if feed, ok := r.feeds.Get(key); ok {
		r.feeds.Remove(key)
		feed.Close()
	}
}
