package review

// RouteRequest carries the asset segment of the review address
type RouteRequest struct {
	Path string `json:"path"`
}

// SelectAssetRequest picks an asset from the catalog
type SelectAssetRequest struct {
	URL string `json:"url" validate:"required"`
}

// OverrideAssetRequest replaces the asset with a file name or URL
type OverrideAssetRequest struct {
	File string `json:"file" validate:"required"`
}

// SwitchMediaTypeRequest changes the catalog category
type SwitchMediaTypeRequest struct {
	MediaType string `json:"media_type" validate:"required,oneof=video storyboard voiceover document"`
}

// CreateCommentRequest submits a comment at the current position
type CreateCommentRequest struct {
	Text string `json:"comment" validate:"required"`
}

// EditCommentRequest replaces the comment text
type EditCommentRequest struct {
	Text string `json:"comment" validate:"required"`
}

// ThreadReplyRequest appends a reply to a comment
type ThreadReplyRequest struct {
	Text string `json:"text" validate:"required"`
}

// ReactRequest adds the caller's reaction
type ReactRequest struct {
	Symbol string `json:"symbol" validate:"required"`
}

// HashRequest carries the host address fragment
type HashRequest struct {
	Hash string `json:"hash"`
}

// JumpRequest asks the viewer to show a page
type JumpRequest struct {
	Page int `json:"page" validate:"min=1"`
}

// ReadyRequest reports whether the player has loaded metadata
type ReadyRequest struct {
	Ready bool `json:"ready"`
}

// PositionRequest reports or requests a playback position in seconds
type PositionRequest struct {
	Position float64 `json:"position" validate:"gte=0"`
}

// ChatRequest asks the automated reviewer a question
type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

// NotifyTeamRequest emails a review summary
type NotifyTeamRequest struct {
	Message string   `json:"message"`
	To      []string `json:"to"`
	Extra   string   `json:"extra"`
}

// NotifyCommentRequest emails one comment
type NotifyCommentRequest struct {
	CommentID string `json:"comment_id" validate:"required"`
	To        string `json:"to" validate:"required,email"`
}
