package review

import (
	"github.com/johnquangdev/media-review/internal/domain/entities"
	"github.com/johnquangdev/media-review/internal/usecase/comments"
)

// AssetResponse describes the active asset
type AssetResponse struct {
	ID         string `json:"id"`
	DisplayURL string `json:"display_url"`
	Filename   string `json:"filename"`
	MediaType  string `json:"media_type"`
	Category   string `json:"category"`
	Axis       string `json:"axis"`
}

// ViewerResponse tells the surface how to render the asset
type ViewerResponse struct {
	Kind      string `json:"kind,omitempty"`
	URL       string `json:"url,omitempty"`
	Supported bool   `json:"supported"`
	Message   string `json:"message,omitempty"`
}

// SessionResponse is the review session snapshot
type SessionResponse struct {
	Asset     *AssetResponse  `json:"asset,omitempty"`
	PathParam string          `json:"path_param"`
	Pending   bool            `json:"pending"`
	MediaType string          `json:"media_type"`
	ShareLink string          `json:"share_link,omitempty"`
	ExportURL string          `json:"export_url,omitempty"`
	Viewer    *ViewerResponse `json:"viewer,omitempty"`
}

// CatalogResponse lists the files of one category
type CatalogResponse struct {
	MediaType string               `json:"media_type"`
	Files     []entities.MediaFile `json:"files"`
}

// ReactionCount is one palette entry with its tally
type ReactionCount struct {
	Symbol  string   `json:"symbol"`
	Count   int      `json:"count"`
	Users   []string `json:"users,omitempty"`
	Reacted bool     `json:"reacted"`
}

// AdditionResponse is one threaded reply
type AdditionResponse struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// CommentResponse is one rendered comment
type CommentResponse struct {
	ID        int64              `json:"id"`
	Ref       string             `json:"ref"`
	AssetID   string             `json:"video_id"`
	Label     string             `json:"label"`
	Timestamp *float64           `json:"timestamp,omitempty"`
	Page      *int               `json:"page,omitempty"`
	User      string             `json:"user"`
	Body      string             `json:"body"`
	Additions []AdditionResponse `json:"additions,omitempty"`
	Image     *string            `json:"image,omitempty"`
	Reactions []ReactionCount    `json:"reactions"`
	CreatedAt string             `json:"created_at,omitempty"`
	Active    bool               `json:"active"`
}

// CommentListResponse is the comment list with the live indicator
type CommentListResponse struct {
	AssetID  string              `json:"video_id"`
	Comments []CommentResponse   `json:"comments"`
	Live     comments.LiveStatus `json:"live"`
}

// DeleteCommentResponse reports whether the delete was sent
type DeleteCommentResponse struct {
	Deleted bool `json:"deleted"`
}

// HashResponse is the outcome of a host fragment
type HashResponse struct {
	Page    int  `json:"page,omitempty"`
	Matched bool `json:"matched"`
}

// PageStateResponse is the viewer page state
type PageStateResponse struct {
	Active     bool `json:"active"`
	Page       int  `json:"page"`
	TotalPages *int `json:"total_pages,omitempty"`
}

// PositionResponse is the playback state
type PositionResponse struct {
	Position        float64 `json:"position"`
	Label           string  `json:"label"`
	ActiveCommentID int64   `json:"active_comment_id,omitempty"`
	Caption         string  `json:"caption,omitempty"`
}

// ClusterResponse is one scrub-bar marker or page group
type ClusterResponse struct {
	Position   float64 `json:"position,omitempty"`
	Page       int     `json:"page,omitempty"`
	Label      string  `json:"label"`
	Tier       string  `json:"tier"`
	CommentIDs []int64 `json:"comment_ids"`
}

// TimelineResponse holds the markers for the active asset
type TimelineResponse struct {
	Axis     string            `json:"axis"`
	Clusters []ClusterResponse `json:"clusters"`
}

// ReviewedAssetsResponse lists asset ids that have comments
type ReviewedAssetsResponse struct {
	AssetIDs []string `json:"video_ids"`
}

// ChatResponse is the automated reviewer's answer
type ChatResponse struct {
	Response string `json:"response"`
}
