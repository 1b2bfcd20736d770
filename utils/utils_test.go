package utils

import (
	"strings"
	"testing"
)

func TestStoragePathFromURL(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		prefix string
		want   string
	}{
		{
			"disk media url",
			"/media/album/3/15.jpg",
			"",
			"album/3/15.jpg",
		},
		{
			"disk thumb url",
			"/media/album/3/15_thumb.jpg",
			"",
			"album/3/15_thumb.jpg",
		},
		{
			"s3 url with prefix",
			"https://photos.s3.eu-west-1.amazonaws.com/events/album/3/15.jpg",
			"events",
			"album/3/15.jpg",
		},
		{
			"s3 url without prefix",
			"https://photos.s3.amazonaws.com/album/3/15.jpg",
			"",
			"album/3/15.jpg",
		},
		{
			"empty path",
			"https://photos.s3.amazonaws.com/",
			"",
			"",
		},
		{
			"traversal rejected",
			"/media/../etc/passwd",
			"",
			"",
		},
		{
			"garbage",
			"://what",
			"",
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StoragePathFromURL(tt.url, tt.prefix); got != tt.want {
				t.Errorf("StoragePathFromURL(%q, %q) = %q, want %q", tt.url, tt.prefix, got, tt.want)
			}
		})
	}
}

func TestRand16BytesToBase62(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok := Rand16BytesToBase62()
		if tok == "" {
			t.Fatal("empty token")
		}
		if seen[tok] {
			t.Fatalf("token %q repeated", tok)
		}
		seen[tok] = true
	}
}

func TestSha512String(t *testing.T) {
	h := Sha512String("guestsnap")
	if len(h) != 128 {
		t.Errorf("hex sha512 length = %d, want 128", len(h))
	}
	if h != strings.ToLower(h) {
		t.Errorf("expected lowercase hex, got %q", h)
	}
	if h != Sha512String("guestsnap") {
		t.Error("hash is not deterministic")
	}
}
