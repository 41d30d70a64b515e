package repository

import (
	"context"

	"github.com/johnquangdev/media-review/internal/domain/entities"
	"github.com/johnquangdev/media-review/internal/infrastructure/external/reviewapi"
)

// CommentRepository serves comments from the review backend
type CommentRepository struct {
	api *reviewapi.Client
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(api *reviewapi.Client) *CommentRepository {
	return &CommentRepository{api: api}
}

func (r *CommentRepository) List(ctx context.Context, assetID string) ([]entities.Comment, error) {
	return r.api.ListComments(ctx, assetID)
}

func (r *CommentRepository) Create(ctx context.Context, draft entities.CommentDraft) error {
	return r.api.CreateComment(ctx, draft)
}

func (r *CommentRepository) Replace(ctx context.Context, id int64, text string) error {
	return r.api.ReplaceComment(ctx, id, text)
}

func (r *CommentRepository) React(ctx context.Context, id int64, symbol string) error {
	return r.api.ReactToComment(ctx, id, symbol)
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	return r.api.DeleteComment(ctx, id)
}

func (r *CommentRepository) ListAssetIDs(ctx context.Context) ([]string, error) {
	return r.api.ListCommentedAssets(ctx)
}
