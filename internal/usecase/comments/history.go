package comments

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/media-review/errors"
	"github.com/johnquangdev/media-review/internal/domain/entities"
	"github.com/johnquangdev/media-review/internal/domain/repositories"
)

// History browses comments left on other assets
type History struct {
	repo   repositories.CommentRepository
	logger *zap.Logger
}

// NewHistory creates a history browser
func NewHistory(repo repositories.CommentRepository, logger *zap.Logger) *History {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &History{repo: repo, logger: logger}
}

// ReviewedAssets returns every asset id that has comments
func (h *History) ReviewedAssets(ctx context.Context) ([]string, error) {
	ids, err := h.repo.ListAssetIDs(ctx)
	if err != nil {
		h.logger.Error("comments.history.assets_failed", zap.Error(err))
		return nil, err
	}
	out := ids[:0]
	for _, id := range ids {
		if strings.TrimSpace(id) != "" {
			out = append(out, id)
		}
	}
	return out, nil
}

// PreviousComments returns the comments of assetID ordered page then time
func (h *History) PreviousComments(ctx context.Context, assetID string) ([]entities.Comment, error) {
	if strings.TrimSpace(assetID) == "" {
		return nil, errors.ErrInvalidArgument("asset id is required")
	}
	list, err := h.repo.List(ctx, assetID)
	if err != nil {
		h.logger.Error("comments.history.list_failed", zap.String("asset_id", assetID), zap.Error(err))
		return nil, err
	}
	return sortPrevious(list), nil
}
