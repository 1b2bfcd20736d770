package models

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
)

func TestPhoto_CreatedTimeInLocation(t *testing.T) {
	CST, _ := time.LoadLocation("Asia/Shanghai")
	EET, _ := time.LoadLocation("Europe/Sofia")
	tests := []struct {
		name  string
		photo Photo
		want  time.Time
	}{
		{
			name: "Asia/Shanghai", // CST
			photo: Photo{
				CreatedAt: 1696258800,
				GpsLat:    aws.Float64(39.9254474),
				GpsLong:   aws.Float64(116.3870752),
			},
			want: time.Unix(1696258800, 0).In(CST),
		},
		{
			name: "Europe/Sofia", // EET
			photo: Photo{
				CreatedAt: 1696258800,
				GpsLat:    aws.Float64(42.6977),
				GpsLong:   aws.Float64(23.3219),
			},
			want: time.Unix(1696258800, 0).In(EET),
		},
		{
			name: "no GPS falls back to local",
			photo: Photo{
				CreatedAt: 1696258800,
			},
			want: time.Unix(1696258800, 0),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.photo.CreatedTimeInLocation()
			if !got.Equal(tt.want) {
				t.Errorf("CreatedTimeInLocation() = %v, want %v", got, tt.want)
			}
			if got.Format(time.RFC3339) != tt.want.Format(time.RFC3339) {
				t.Errorf("CreatedTimeInLocation() rendered as %v, want %v", got.Format(time.RFC3339), tt.want.Format(time.RFC3339))
			}
		})
	}
}

func TestPhoto_GetPathOrThumb(t *testing.T) {
	photo := Photo{
		ID:      210,
		AlbumID: 56,
		Name:    "IMG_1234.JPG",
	}
	if got := photo.GetPath(); got != "album/56/210.jpg" {
		t.Errorf("GetPath() = %q", got)
	}
	if got := photo.GetThumbPath(); got != "album/56/210_thumb.jpg" {
		t.Errorf("GetThumbPath() = %q", got)
	}
	noExt := Photo{ID: 7, AlbumID: 3, Name: "selfie"}
	if got := noExt.GetPath(); got != "album/3/7" {
		t.Errorf("GetPath() without extension = %q", got)
	}
}

func TestPhoto_ApprovalFollowsModerationSetting(t *testing.T) {
	moderated := Album{ID: 1, ModerationEnabled: true}
	open := Album{ID: 2}
	if p := NewPhoto(&moderated, "g", "a.jpg", "image/jpeg"); p.Approved {
		t.Error("photo in moderated album should start unapproved")
	}
	if p := NewPhoto(&open, "g", "a.jpg", "image/jpeg"); !p.Approved {
		t.Error("photo in unmoderated album should start approved")
	}
}
