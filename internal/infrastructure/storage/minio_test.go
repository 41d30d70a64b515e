package storage

import "testing"

func TestCatalogEntries_SkipsFolders(t *testing.T) {
	keys := []string{"videos/", "videos/intro.mp4", "videos/2024/outro.mp4", "videos/sub/"}
	got := catalogEntries("https://naveon-video-storage.s3.amazonaws.com", keys)

	if len(got) != 2 {
		t.Fatalf("want 2 entries got %d: %v", len(got), got)
	}
	if got[0].Filename != "intro.mp4" || got[0].URL != "https://naveon-video-storage.s3.amazonaws.com/videos/intro.mp4" {
		t.Fatalf("unexpected first entry %+v", got[0])
	}
	if got[1].Filename != "outro.mp4" {
		t.Fatalf("want last segment as filename got %q", got[1].Filename)
	}
}
