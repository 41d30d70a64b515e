package entities

import (
	"strings"
)

// MediaType determines which viewer and comment axis apply to an asset
type MediaType string

const (
	MediaTypeVideo      MediaType = "video"
	MediaTypeStoryboard MediaType = "storyboard"
	MediaTypeVoiceover  MediaType = "voiceover"
	MediaTypeDocument   MediaType = "document"
)

// Axis is the position axis comments are anchored to
type Axis string

const (
	AxisTime Axis = "time"
	AxisPage Axis = "page"
)

var (
	storyboardExtensions = []string{".pdf", ".html", ".md"}
	documentExtensions   = []string{".docx", ".doc", ".txt"}
)

// ClassifyMediaType derives the media type from a filename or URL.
// Checks run in a fixed priority order: storyboard, document, voiceover, video.
// A name such as "voiceover_storyboard.pdf" therefore classifies as storyboard.
func ClassifyMediaType(name string) MediaType {
	lower := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.Contains(lower, "storyboard") || hasAnySuffix(lower, storyboardExtensions):
		return MediaTypeStoryboard
	case hasAnySuffix(lower, documentExtensions):
		return MediaTypeDocument
	case strings.Contains(lower, "voice") || strings.HasSuffix(lower, ".mp3"):
		return MediaTypeVoiceover
	default:
		return MediaTypeVideo
	}
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

// ParseMediaType accepts both singular names and the plural catalog categories.
func ParseMediaType(s string) (MediaType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "video", "videos":
		return MediaTypeVideo, true
	case "storyboard", "storyboards":
		return MediaTypeStoryboard, true
	case "voiceover", "voiceovers":
		return MediaTypeVoiceover, true
	case "document", "documents":
		return MediaTypeDocument, true
	}
	return "", false
}

// Category is the plural name used for catalog queries and storage prefixes
func (t MediaType) Category() string {
	switch t {
	case MediaTypeStoryboard:
		return "storyboards"
	case MediaTypeVoiceover:
		return "voiceovers"
	case MediaTypeDocument:
		return "documents"
	default:
		return "videos"
	}
}

// Axis returns the comment anchoring axis for the media type
func (t MediaType) Axis() Axis {
	if t == MediaTypeStoryboard {
		return AxisPage
	}
	return AxisTime
}

// UsesViewerBridge reports whether the embedded document viewer is active
func (t MediaType) UsesViewerBridge() bool {
	return t == MediaTypeStoryboard
}

func (t MediaType) String() string {
	return string(t)
}
