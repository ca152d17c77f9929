package service

import (
	"context"
	"fmt"

	"github.com/bnema/vidshelf/internal/domain"
	"github.com/bnema/vidshelf/internal/infrastructure/logger"
	"github.com/bnema/vidshelf/internal/port"
)

type CatalogService struct {
	sources []port.VideoSource
}

// NewCatalogService lists sources in the given order. Nil sources are
// ignored so callers can pass an optional remote without branching.
func NewCatalogService(sources ...port.VideoSource) *CatalogService {
	s := &CatalogService{}
	for _, src := range sources {
		if src != nil {
			s.sources = append(s.sources, src)
		}
	}
	return s
}

// List merges every source. A failing source is logged and skipped.
func (s *CatalogService) List(ctx context.Context) []domain.Video {
	videos := []domain.Video{}
	for _, src := range s.sources {
		objects, err := src.ListVideos(ctx)
		if err != nil {
			logger.Error.Printf("failed to list %s videos: %v", src.Kind(), err)
			continue
		}
		for _, obj := range domain.FilterVideos(objects) {
			videos = append(videos, domain.NewVideo(src.Kind(), obj, src.URLBase()))
		}
	}
	return videos
}

func (s *CatalogService) Find(ctx context.Context, id string) (domain.Video, error) {
	for _, v := range s.List(ctx) {
		if v.ID == id {
			return v, nil
		}
	}
	return domain.Video{}, fmt.Errorf("video %s: %w", logger.SanitizeForLog(id), domain.ErrNotFound)
}
