package entities

import (
	"net/url"
	"path"
	"strings"
)

// Asset is the single file currently under review
type Asset struct {
	ID         string    `json:"id"`
	DisplayURL string    `json:"display_url"`
	MediaType  MediaType `json:"media_type"`
}

// MediaFile is one entry of the asset catalog
type MediaFile struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// NewAsset derives the full identity from a display URL or bare filename
func NewAsset(displayURL string) Asset {
	displayURL = strings.TrimSpace(displayURL)
	return Asset{
		ID:         AssetIDFromURL(displayURL),
		DisplayURL: displayURL,
		MediaType:  ClassifyMediaType(displayURL),
	}
}

// AssetIDFromURL returns the last path segment of u with its extension stripped
func AssetIDFromURL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	if parsed, err := url.Parse(u); err == nil && parsed.Path != "" {
		u = parsed.Path
	}
	base := path.Base(u)
	if base == "/" || base == "." {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// IsZero reports whether no asset is selected
func (a Asset) IsZero() bool {
	return a.DisplayURL == ""
}

// Filename is the last path segment of the display URL
func (a Asset) Filename() string {
	if a.DisplayURL == "" {
		return ""
	}
	if parsed, err := url.Parse(a.DisplayURL); err == nil && parsed.Path != "" {
		return path.Base(parsed.Path)
	}
	return path.Base(a.DisplayURL)
}

// GuessAssetURL synthesizes the conventional storage URL for an asset named
// only by a shared-link path parameter.
func GuessAssetURL(baseURL string, mediaType MediaType, pathParam string) string {
	return strings.TrimRight(baseURL, "/") + "/" + mediaType.Category() + "/" + pathParam
}

// ShareLink is the review address of an asset under origin
func ShareLink(origin, assetID string) string {
	return strings.TrimRight(origin, "/") + "/review/" + url.PathEscape(assetID)
}
