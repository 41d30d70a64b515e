package repositories

import (
	"context"
)

// ReviewRequest asks the automated reviewer to review an asset
type ReviewRequest struct {
	FileURL   string `json:"file_url"`
	MediaType string `json:"media_type"`
	AssetID   string `json:"video_id"`
}

// ChatRequest is one message to the automated reviewer
type ChatRequest struct {
	Message   string `json:"message"`
	FileURL   string `json:"file_url"`
	MediaType string `json:"media_type"`
	AssetID   string `json:"video_id"`
}

// AssistantGateway reaches the automated reviewer
type AssistantGateway interface {
	// Review triggers a review at endpoint and returns the raw response body
	Review(ctx context.Context, endpoint string, req ReviewRequest) (map[string]any, error)

	// Chat sends a message and returns the reply text
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// TeamNotification announces a review to teammates
type TeamNotification struct {
	AssetID  string   `json:"video_id" validate:"required"`
	Reviewer string   `json:"reviewer" validate:"required"`
	AssetURL string   `json:"asset_url" validate:"required"`
	Message  string   `json:"message"`
	To       []string `json:"to" validate:"required,min=1,dive,email"`
}

// CommentNotification points a teammate at one comment
type CommentNotification struct {
	AssetID     string `json:"video_id" validate:"required"`
	Page        *int   `json:"page"`
	CommentText string `json:"comment_text" validate:"required"`
	Reviewer    string `json:"reviewer" validate:"required"`
	To          string `json:"to" validate:"required,email"`
	AssetURL    string `json:"asset_url"`
}

// Notifier sends review notifications
type Notifier interface {
	NotifyTeam(ctx context.Context, n TeamNotification) error
	NotifyComment(ctx context.Context, n CommentNotification) error
}
