package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRatingAction(t *testing.T) {
	tests := []struct {
		input   string
		want    RatingAction
		wantErr bool
	}{
		{input: "like", want: ActionLike},
		{input: "dislike", want: ActionDislike},
		{input: "LIKE", wantErr: true},
		{input: "", wantErr: true},
		{input: "love", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRatingAction(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidAction))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRatingAction_Deltas(t *testing.T) {
	likes, dislikes := ActionLike.Deltas()
	assert.Equal(t, int64(1), likes)
	assert.Equal(t, int64(0), dislikes)

	likes, dislikes = ActionDislike.Deltas()
	assert.Equal(t, int64(0), likes)
	assert.Equal(t, int64(1), dislikes)
}

func TestValidateVideoID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"hashed id", "k3j2h4g5f6", false},
		{"legacy index id", "video-1", false},
		{"unicode", "vidéo-日本", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"newline", "video\n1", true},
		{"escape", "video\x1b[31m", true},
		{"too long", strings.Repeat("a", 257), true},
		{"at limit", strings.Repeat("a", 256), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVideoID(tt.id)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidID))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewVideoRating(t *testing.T) {
	r := NewVideoRating("abc")
	assert.Equal(t, &VideoRating{VideoID: "abc"}, r)
}
