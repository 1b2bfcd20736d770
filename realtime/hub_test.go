package realtime

import (
	"testing"
	"time"

	"guestsnap/models"
)

func receiveOne(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case e := <-sub.C:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHubPublishReachesAlbumSubscribersOnly(t *testing.T) {
	hub := NewHub()
	subA := hub.Subscribe(1)
	subB := hub.Subscribe(2)
	defer hub.Unsubscribe(subA)
	defer hub.Unsubscribe(subB)

	hub.Publish(Event{Type: EventInsert, Photo: models.Photo{ID: 10, AlbumID: 1, Approved: true}})

	e := receiveOne(t, subA)
	if e.Photo.ID != 10 || e.Type != EventInsert {
		t.Errorf("unexpected event: %+v", e)
	}
	select {
	case e := <-subB.C:
		t.Errorf("album 2 subscriber received foreign event: %+v", e)
	default:
	}
}

func TestHubEventsArriveInPublishOrder(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(7)
	defer hub.Unsubscribe(sub)

	for i := uint64(1); i <= 5; i++ {
		hub.Publish(Event{Type: EventInsert, Photo: models.Photo{ID: i, AlbumID: 7, Approved: true}})
	}
	for i := uint64(1); i <= 5; i++ {
		if e := receiveOne(t, sub); e.Photo.ID != i {
			t.Fatalf("event %d arrived out of order: got photo %d", i, e.Photo.ID)
		}
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(3)
	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub) // second call is a no-op

	if _, ok := <-sub.C; ok {
		t.Error("channel still open after Unsubscribe")
	}
	if n := hub.Subscribers(3); n != 0 {
		t.Errorf("Subscribers(3) = %d, want 0", n)
	}
	// Publishing to an album with no subscribers must not panic
	hub.Publish(Event{Type: EventDelete, Photo: models.Photo{ID: 1, AlbumID: 3}})
}
