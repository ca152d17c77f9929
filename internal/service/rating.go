package service

import (
	"context"
	"fmt"

	"github.com/bnema/vidshelf/internal/domain"
	"github.com/bnema/vidshelf/internal/infrastructure/logger"
	"github.com/bnema/vidshelf/internal/port"
)

type RatingService struct {
	store port.RatingStore
}

func NewRatingService(store port.RatingStore) *RatingService {
	return &RatingService{store: store}
}

func (s *RatingService) Get(ctx context.Context, videoID string) (*domain.VideoRating, error) {
	if err := domain.ValidateVideoID(videoID); err != nil {
		return nil, err
	}

	rating, err := s.store.GetRating(ctx, videoID)
	if err != nil {
		logger.Error.Printf("failed to fetch rating for %s: %v", logger.SanitizeForLog(videoID), err)
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return rating, nil
}

// Rate applies a like or dislike. action is the raw client value.
func (s *RatingService) Rate(ctx context.Context, videoID, action string) (*domain.VideoRating, error) {
	if err := domain.ValidateVideoID(videoID); err != nil {
		return nil, err
	}
	a, err := domain.ParseRatingAction(action)
	if err != nil {
		return nil, err
	}

	rating, err := s.store.ApplyAction(ctx, videoID, a)
	if err != nil {
		logger.Error.Printf("failed to apply %s to %s: %v", a, logger.SanitizeForLog(videoID), err)
		return nil, fmt.Errorf("apply rating: %w", err)
	}
	logger.Debug.Printf("rating %s: likes=%d dislikes=%d", logger.SanitizeForLog(videoID), rating.Likes, rating.Dislikes)
	return rating, nil
}
