package repositories

import (
	"context"

	"github.com/johnquangdev/media-review/internal/domain/entities"
)

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// List returns every comment stored for an asset, in server order
	List(ctx context.Context, assetID string) ([]entities.Comment, error)

	// Create submits a new comment
	Create(ctx context.Context, draft entities.CommentDraft) error

	// Replace overwrites the full text of a comment
	Replace(ctx context.Context, id int64, text string) error

	// React increments symbol on a comment; the backend deduplicates per user
	React(ctx context.Context, id int64, symbol string) error

	// Delete removes a comment
	Delete(ctx context.Context, id int64) error

	// ListAssetIDs returns the ids of every asset that has comments
	ListAssetIDs(ctx context.Context) ([]string, error)
}

// TranscriptRepository defines the interface for transcript lookups
type TranscriptRepository interface {
	// Lines returns the transcript of an asset, generating it on demand
	Lines(ctx context.Context, assetID string) ([]entities.TranscriptLine, error)
}
