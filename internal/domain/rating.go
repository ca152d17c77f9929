package domain

import (
	"fmt"
	"strings"
)

// maxVideoIDLength bounds the key stored for a rating record.
const maxVideoIDLength = 256

type RatingAction string

const (
	ActionLike    RatingAction = "like"
	ActionDislike RatingAction = "dislike"
)

func ParseRatingAction(s string) (RatingAction, error) {
	switch RatingAction(s) {
	case ActionLike, ActionDislike:
		return RatingAction(s), nil
	default:
		return "", ErrInvalidAction
	}
}

// Deltas returns the likes and dislikes increments for the action.
func (a RatingAction) Deltas() (likes, dislikes int64) {
	if a == ActionLike {
		return 1, 0
	}
	return 0, 1
}

type VideoRating struct {
	VideoID  string `json:"videoId" bson:"videoId"`
	Likes    int64  `json:"likes" bson:"likes"`
	Dislikes int64  `json:"dislikes" bson:"dislikes"`
}

func NewVideoRating(videoID string) *VideoRating {
	return &VideoRating{VideoID: videoID}
}

func ValidateVideoID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidID)
	}
	if len(id) > maxVideoIDLength {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidID, maxVideoIDLength)
	}
	for _, r := range id {
		if r < 32 || r == 127 {
			return fmt.Errorf("%w: contains control characters", ErrInvalidID)
		}
	}
	return nil
}
