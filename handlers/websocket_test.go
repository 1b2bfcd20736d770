package handlers

import (
	"testing"

	"guestsnap/models"
	"guestsnap/realtime"
)

func Test_guestVisible(t *testing.T) {
	tests := []struct {
		name  string
		event realtime.Event
		want  bool
	}{
		{
			"approved insert goes out",
			realtime.Event{Type: realtime.EventInsert, Photo: models.Photo{Approved: true}},
			true,
		},
		{
			"pending insert stays hidden",
			realtime.Event{Type: realtime.EventInsert, Photo: models.Photo{Approved: false}},
			false,
		},
		{
			"approval update goes out",
			realtime.Event{Type: realtime.EventUpdate, Photo: models.Photo{Approved: true}, WasApproved: false},
			true,
		},
		{
			"hide update goes out so viewers can drop the photo",
			realtime.Event{Type: realtime.EventUpdate, Photo: models.Photo{Approved: false}, WasApproved: true},
			true,
		},
		{
			"update of a still hidden photo stays hidden",
			realtime.Event{Type: realtime.EventUpdate, Photo: models.Photo{Approved: false}, WasApproved: false},
			false,
		},
		{
			"delete of a visible photo goes out",
			realtime.Event{Type: realtime.EventDelete, Photo: models.Photo{Approved: true}, WasApproved: true},
			true,
		},
		{
			"delete of a pending photo stays hidden",
			realtime.Event{Type: realtime.EventDelete, Photo: models.Photo{Approved: false}, WasApproved: false},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := guestVisible(tt.event); got != tt.want {
				t.Errorf("guestVisible() = %v, want %v", got, tt.want)
			}
		})
	}
}
