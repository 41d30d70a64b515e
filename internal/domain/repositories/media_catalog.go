package repositories

import (
	"context"

	"github.com/johnquangdev/media-review/internal/domain/entities"
)

// MediaCatalog lists the assets available for review in a category
type MediaCatalog interface {
	List(ctx context.Context, mediaType entities.MediaType) ([]entities.MediaFile, error)
}
