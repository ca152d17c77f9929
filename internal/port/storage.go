package port

import (
	"context"

	"github.com/bnema/vidshelf/internal/domain"
)

type RatingStore interface {
	// GetRating returns the counters for videoID, creating a zeroed record
	// on first access.
	GetRating(ctx context.Context, videoID string) (*domain.VideoRating, error)
	// ApplyAction atomically increments one counter, creating the record if
	// it does not exist yet.
	ApplyAction(ctx context.Context, videoID string, action domain.RatingAction) (*domain.VideoRating, error)
	Close() error
}

type ReportStore interface {
	Append(report *domain.RunReport) error
	List() ([]*domain.RunReport, error)
}
