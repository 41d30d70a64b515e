package entities

import (
	"encoding/json"
	stdErrors "errors"
	"testing"
	"time"
)

func TestClassifyMediaType(t *testing.T) {
	cases := []struct {
		name string
		want MediaType
	}{
		{"https://cdn.example/storyboards/board_v2.pdf", MediaTypeStoryboard},
		{"voiceover_storyboard.pdf", MediaTypeStoryboard},
		{"Storyboard-final.MP4", MediaTypeStoryboard},
		{"notes.md", MediaTypeStoryboard},
		{"script.docx", MediaTypeDocument},
		{"readme.txt", MediaTypeDocument},
		{"voice_take3.wav", MediaTypeVoiceover},
		{"take1.mp3", MediaTypeVoiceover},
		{"cut_v1.mp4", MediaTypeVideo},
		{"", MediaTypeVideo},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyMediaType(tc.name); got != tc.want {
				t.Fatalf("want %s got %s", tc.want, got)
			}
		})
	}
}

func TestMediaTypeCategoryAndAxis(t *testing.T) {
	if MediaTypeStoryboard.Category() != "storyboards" || MediaTypeStoryboard.Axis() != AxisPage {
		t.Fatalf("unexpected storyboard category/axis")
	}
	if MediaTypeVoiceover.Category() != "voiceovers" || MediaTypeVoiceover.Axis() != AxisTime {
		t.Fatalf("unexpected voiceover category/axis")
	}
	if got, ok := ParseMediaType("Documents"); !ok || got != MediaTypeDocument {
		t.Fatalf("want document got %s %v", got, ok)
	}
	if _, ok := ParseMediaType("podcast"); ok {
		t.Fatalf("podcast should not parse")
	}
}

func TestAssetIDFromURL(t *testing.T) {
	cases := map[string]string{
		"https://cdn.example/videos/cut_v1.mp4":         "cut_v1",
		"https://cdn.example/videos/cut.v1.mp4?sig=abc": "cut.v1",
		"board.pdf":            "board",
		"https://cdn.example/": "",
		"":                     "",
	}
	for in, want := range cases {
		if got := AssetIDFromURL(in); got != want {
			t.Fatalf("AssetIDFromURL(%q): want %q got %q", in, want, got)
		}
	}

	a := NewAsset("  https://cdn.example/storyboards/board.pdf ")
	if a.ID != "board" || a.MediaType != MediaTypeStoryboard || a.Filename() != "board.pdf" {
		t.Fatalf("unexpected asset %+v", a)
	}
	if got := GuessAssetURL("https://cdn.example/", MediaTypeStoryboard, "board.pdf"); got != "https://cdn.example/storyboards/board.pdf" {
		t.Fatalf("unexpected guess %q", got)
	}
	if got := ShareLink("https://review.example/", "my cut"); got != "https://review.example/review/my%20cut" {
		t.Fatalf("unexpected share link %q", got)
	}
}

func TestComment_TolerantDecoding(t *testing.T) {
	raw := `[
		{"id": 1, "video_id": "cut", "timestamp": "00", "page": "3", "comment": "a", "user": "sam",
		 "reactions": "{\"👍\": [\"sam\"]}", "created_at": "2026-01-02T03:04:05.123456"},
		{"id": 2, "video_id": "cut", "timestamp": 12.5, "page": null, "comment": "b", "user": "lee",
		 "reactions": {"❤️": "lee"}},
		{"id": 3, "video_id": "cut", "timestamp": null, "comment": "c", "user": "lee", "reactions": null}
	]`
	var list []Comment
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list[0].Seconds() != 0 || list[0].PageNumber() != 3 || list[0].Reactions.Count("👍") != 1 {
		t.Fatalf("unexpected first comment %+v", list[0])
	}
	if list[0].CreatedAt != "2026-01-02T03:04:05.123456" {
		t.Fatalf("created_at should be kept verbatim, got %q", list[0].CreatedAt)
	}
	if list[1].Seconds() != 12.5 || list[1].Page != nil || list[1].Reactions.Users("❤️")[0] != "lee" {
		t.Fatalf("unexpected second comment %+v", list[1])
	}
	if list[2].Timestamp != nil || list[2].Reactions == nil {
		t.Fatalf("unexpected third comment %+v", list[2])
	}

	var bad Comment
	if err := json.Unmarshal([]byte(`{"id": 4, "timestamp": "soon"}`), &bad); err == nil {
		t.Fatalf("expected error for non-numeric timestamp")
	}
}

func TestCommentRef(t *testing.T) {
	ts := 7.0
	persisted := Comment{ID: 42, Timestamp: &ts, Text: "x"}
	if persisted.Ref() != "42" {
		t.Fatalf("unexpected ref %q", persisted.Ref())
	}
	id, err := ParseCommentRef(persisted.Ref())
	if err != nil || id != 42 {
		t.Fatalf("want 42 got %d %v", id, err)
	}

	pending := Comment{Timestamp: &ts, Text: "fix color"}
	if pending.Ref() != "7-fix color" {
		t.Fatalf("unexpected placeholder %q", pending.Ref())
	}
	for _, ref := range []CommentRef{pending.Ref(), "0", "-3", ""} {
		if _, err := ParseCommentRef(ref); !stdErrors.Is(err, ErrPlaceholderRef) {
			t.Fatalf("ParseCommentRef(%q): want ErrPlaceholderRef got %v", ref, err)
		}
	}
}

func TestThread(t *testing.T) {
	at := time.Date(2026, 3, 4, 15, 4, 5, 0, time.UTC)
	text := FormatAddition("Too dark", AuthorLine("sam", at), "agreed")
	text = FormatAddition(text, AuthorLine("lee", at), "fixed in v2\nsee shot 4")

	if text != "Too dark\n\n-- sam (3/4/2026, 3:04:05 PM)\nagreed\n\n-- lee (3/4/2026, 3:04:05 PM)\nfixed in v2\nsee shot 4" {
		t.Fatalf("unexpected text %q", text)
	}

	c := Comment{Text: text}
	thread := c.Thread()
	if thread.Body != "Too dark" || len(thread.Additions) != 2 {
		t.Fatalf("unexpected thread %+v", thread)
	}
	if thread.Additions[1].Author != "lee (3/4/2026, 3:04:05 PM)" || thread.Additions[1].Text != "fixed in v2\nsee shot 4" {
		t.Fatalf("unexpected addition %+v", thread.Additions[1])
	}
}

func TestFloorSeconds(t *testing.T) {
	for in, want := range map[float64]float64{12.99: 12, 0.4: 0, -3: 0, 61: 61} {
		if got := FloorSeconds(in); got != want {
			t.Fatalf("FloorSeconds(%v): want %v got %v", in, want, got)
		}
	}
}

func TestViewerFor(t *testing.T) {
	cases := map[string]ViewerKind{
		"https://cdn.example/videos/cut.MP4": ViewerVideo,
		"take1.wav":                          ViewerAudio,
		"board.pdf":                          ViewerPDF,
		"script.docx":                        ViewerDocx,
		"notes.md":                           ViewerText,
	}
	for in, want := range cases {
		got, err := ViewerFor(NewAsset(in))
		if err != nil || got != want {
			t.Fatalf("ViewerFor(%q): want %s got %s %v", in, want, got, err)
		}
	}
	if _, err := ViewerFor(NewAsset("cut.mkv")); !stdErrors.Is(err, ErrUnsupportedAsset) {
		t.Fatalf("want ErrUnsupportedAsset got %v", err)
	}
}
