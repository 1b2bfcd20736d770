package gallery

import (
	"sync"
	"time"

	"guestsnap/models"
)

// DefaultInterval is how long each photo stays on screen before the
// slideshow advances.
const DefaultInterval = 5000 * time.Millisecond

// Slideshow tracks the current position in a Feed and advances it on a
// timer while playing. The timer restarts whenever the index changes, for
// any reason; play/pause only touches the timer, never the feed's
// subscription.
type Slideshow struct {
	mu       sync.Mutex
	feed     *Feed
	index    int
	playing  bool
	interval time.Duration
	timer    *time.Timer
	stopped  bool
}

func NewSlideshow(feed *Feed, interval time.Duration) *Slideshow {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Slideshow{
		feed:     feed,
		interval: interval,
	}
	s.timer = time.AfterFunc(interval, s.tick)
	s.timer.Stop()
	feed.SetOnChange(s.listChanged)
	return s
}

func (s *Slideshow) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playing || s.stopped {
		return
	}
	s.advanceLocked()
}

// advanceLocked moves to the next photo, wrapping around, and restarts the
// timer.
func (s *Slideshow) advanceLocked() {
	length := s.feed.Len()
	if length > 0 {
		s.index = (s.index + 1) % length
	}
	s.restartTimerLocked()
}

func (s *Slideshow) restartTimerLocked() {
	s.timer.Stop()
	if s.playing && !s.stopped {
		s.timer.Reset(s.interval)
	}
}

// listChanged clamps the index when the list shrank under it. Growth leaves
// the index alone - a new photo takes its place in the insert order and is
// reached on a later pass.
func (s *Slideshow) listChanged(length int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index >= length {
		s.index = length - 1
		if s.index < 0 {
			s.index = 0
		}
		s.restartTimerLocked()
	}
}

func (s *Slideshow) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playing || s.stopped {
		return
	}
	s.playing = true
	s.restartTimerLocked()
}

func (s *Slideshow) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
	s.timer.Stop()
}

func (s *Slideshow) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Next advances manually. Also restarts the timer, like any index change.
func (s *Slideshow) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.advanceLocked()
}

func (s *Slideshow) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Current returns the photo under the cursor, if the list is non-empty.
func (s *Slideshow) Current() (models.Photo, bool) {
	s.mu.Lock()
	index := s.index
	s.mu.Unlock()
	return s.feed.At(index)
}

// Stop halts the timer for good. The feed is left to its owner.
func (s *Slideshow) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	s.playing = false
	s.timer.Stop()
}
