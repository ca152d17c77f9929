package port

import (
	"context"

	"github.com/bnema/vidshelf/internal/domain"
)

type VideoSource interface {
	Kind() domain.VideoSourceKind
	// URLBase is prefixed to object keys to build playback URLs.
	URLBase() string
	ListVideos(ctx context.Context) ([]domain.ObjectInfo, error)
}
