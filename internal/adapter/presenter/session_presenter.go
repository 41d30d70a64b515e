package presenter

import (
	"github.com/johnquangdev/media-review/internal/adapter/dto/review"
	"github.com/johnquangdev/media-review/internal/domain/entities"
)

// UnsupportedMessage is shown in place of a viewer for unknown file types
const UnsupportedMessage = "Unsupported file type."

// Links builds the outward links of an asset
type Links struct {
	PublicOrigin string
	ExportURL    func(assetID string) string
	ViewerURL    func(documentURL string) string
}

// ToAssetResponse converts an Asset entity
func ToAssetResponse(a entities.Asset) *review.AssetResponse {
	if a.IsZero() {
		return nil
	}
	return &review.AssetResponse{
		ID:         a.ID,
		DisplayURL: a.DisplayURL,
		Filename:   a.Filename(),
		MediaType:  string(a.MediaType),
		Category:   a.MediaType.Category(),
		Axis:       string(a.MediaType.Axis()),
	}
}

// ToViewerResponse picks the viewer for a. Storyboard PDFs load through the
// embedded viewer page so the page bridge is available.
func ToViewerResponse(a entities.Asset, links Links) *review.ViewerResponse {
	if a.IsZero() {
		return nil
	}
	kind, err := entities.ViewerFor(a)
	if err != nil {
		return &review.ViewerResponse{Supported: false, Message: UnsupportedMessage}
	}
	resp := &review.ViewerResponse{Kind: string(kind), URL: a.DisplayURL, Supported: true}
	if kind == entities.ViewerPDF && a.MediaType.UsesViewerBridge() && links.ViewerURL != nil {
		resp.URL = links.ViewerURL(a.DisplayURL)
	}
	return resp
}

// ToSessionResponse converts the resolver state
func ToSessionResponse(a entities.Asset, pathParam string, pending bool, mediaType entities.MediaType, links Links) review.SessionResponse {
	resp := review.SessionResponse{
		Asset:     ToAssetResponse(a),
		PathParam: pathParam,
		Pending:   pending,
		MediaType: string(mediaType),
		Viewer:    ToViewerResponse(a, links),
	}
	if a.ID != "" {
		resp.ShareLink = entities.ShareLink(links.PublicOrigin, a.ID)
		if links.ExportURL != nil {
			resp.ExportURL = links.ExportURL(a.ID)
		}
	}
	return resp
}
