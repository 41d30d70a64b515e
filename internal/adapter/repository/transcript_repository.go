package repository

import (
	"context"
	"sort"

	"github.com/johnquangdev/media-review/internal/domain/entities"
	"github.com/johnquangdev/media-review/internal/infrastructure/external/reviewapi"
)

// TranscriptRepository serves transcripts from the review backend
type TranscriptRepository struct {
	api *reviewapi.Client
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(api *reviewapi.Client) *TranscriptRepository {
	return &TranscriptRepository{api: api}
}

// Lines returns the transcript ordered by start time
func (r *TranscriptRepository) Lines(ctx context.Context, assetID string) ([]entities.TranscriptLine, error) {
	lines, err := r.api.Transcript(ctx, assetID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Start < lines[j].Start })
	return lines, nil
}
