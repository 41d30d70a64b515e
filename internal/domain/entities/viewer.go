package entities

import (
	"fmt"
	"path"
	"strings"
)

// ViewerKind names the surface able to render an asset
type ViewerKind string

const (
	ViewerVideo ViewerKind = "video"
	ViewerAudio ViewerKind = "audio"
	ViewerPDF   ViewerKind = "pdf"
	ViewerDocx  ViewerKind = "docx"
	ViewerText  ViewerKind = "text"
)

// ViewerFor picks the viewer for an asset by file extension
func ViewerFor(asset Asset) (ViewerKind, error) {
	ext := strings.ToLower(path.Ext(asset.Filename()))
	switch ext {
	case ".mp4", ".mov", ".webm":
		return ViewerVideo, nil
	case ".mp3", ".wav":
		return ViewerAudio, nil
	case ".pdf":
		return ViewerPDF, nil
	case ".docx":
		return ViewerDocx, nil
	case ".txt", ".md", ".html":
		return ViewerText, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedAsset, asset.Filename())
}
