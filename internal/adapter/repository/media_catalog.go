package repository

import (
	"context"

	"github.com/johnquangdev/media-review/internal/domain/entities"
	"github.com/johnquangdev/media-review/internal/infrastructure/external/reviewapi"
)

// APICatalog lists media through the review backend
type APICatalog struct {
	api *reviewapi.Client
}

// NewAPICatalog creates a catalog backed by the review backend
func NewAPICatalog(api *reviewapi.Client) *APICatalog {
	return &APICatalog{api: api}
}

func (c *APICatalog) List(ctx context.Context, mediaType entities.MediaType) ([]entities.MediaFile, error) {
	return c.api.ListMedia(ctx, mediaType)
}
