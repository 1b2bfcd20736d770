package realtime

import (
	"strconv"
	"sync"

	"guestsnap/models"

	cmap "github.com/orcaman/concurrent-map/v2"
)

type EventType uint8

const (
	EventInsert EventType = iota
	EventUpdate
	EventDelete
)

// Event describes one photo row change in an album. For updates WasApproved
// carries the approval flag before the change, so consumers can detect the
// hidden->visible and visible->hidden transitions.
type Event struct {
	Type        EventType    `json:"type"`
	Photo       models.Photo `json:"photo"`
	WasApproved bool         `json:"was_approved"`
}

const subscriptionBuffer = 64

// Subscription is one listener for a single album's photo events. Events are
// delivered in publish order; a subscriber that falls more than
// subscriptionBuffer events behind starts losing events rather than blocking
// the publisher.
type Subscription struct {
	AlbumID uint64
	C       chan Event

	mu     sync.Mutex
	closed bool
}

func (s *Subscription) deliver(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.C <- e:
	default:
		// Slow subscriber - drop
	}
}

func (s *Subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.C)
}

// Hub fans photo change events out to per-album subscribers.
type Hub struct {
	subs cmap.ConcurrentMap[string, []*Subscription]
}

func NewHub() *Hub {
	return &Hub{
		subs: cmap.New[[]*Subscription](),
	}
}

func albumKey(albumID uint64) string {
	return strconv.FormatUint(albumID, 10)
}

func (h *Hub) Subscribe(albumID uint64) *Subscription {
	sub := &Subscription{
		AlbumID: albumID,
		C:       make(chan Event, subscriptionBuffer),
	}
	h.subs.Upsert(albumKey(albumID), []*Subscription{sub}, func(exist bool, valueInMap, newValue []*Subscription) []*Subscription {
		if exist {
			return append(valueInMap, sub)
		}
		return newValue
	})
	return sub
}

// Unsubscribe detaches the subscription and closes its channel. Safe to call
// more than once.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.subs.Upsert(albumKey(sub.AlbumID), []*Subscription{}, func(exist bool, valueInMap, newValue []*Subscription) []*Subscription {
		if !exist {
			return newValue
		}
		for _, os := range valueInMap {
			if os == sub {
				continue
			}
			newValue = append(newValue, os)
		}
		return newValue
	})
	sub.close()
}

func (h *Hub) Publish(e Event) {
	subs, ok := h.subs.Get(albumKey(e.Photo.AlbumID))
	if !ok {
		return
	}
	for _, sub := range subs {
		sub.deliver(e)
	}
}

// Subscribers returns the number of active listeners for an album.
func (h *Hub) Subscribers(albumID uint64) int {
	subs, _ := h.subs.Get(albumKey(albumID))
	return len(subs)
}
