package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/bnema/vidshelf/internal/domain"
	"github.com/bnema/vidshelf/internal/port"
)

const DefaultKeyPrefix = "vidshelf:rating:"

const (
	fieldLikes    = "likes"
	fieldDislikes = "dislikes"
)

// Store keeps one hash per video with likes and dislikes fields.
type Store struct {
	client *redis.Client
	prefix string
}

func NewStore(ctx context.Context, addr string) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return NewStoreWithClient(client, DefaultKeyPrefix), nil
}

func NewStoreWithClient(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(videoID string) string {
	return s.prefix + videoID
}

func (s *Store) GetRating(ctx context.Context, videoID string) (*domain.VideoRating, error) {
	key := s.key(videoID)

	var all *redis.MapStringStringCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key, fieldLikes, 0)
		pipe.HSetNX(ctx, key, fieldDislikes, 0)
		all = pipe.HGetAll(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return parseRating(videoID, all.Val())
}

func (s *Store) ApplyAction(ctx context.Context, videoID string, action domain.RatingAction) (*domain.VideoRating, error) {
	key := s.key(videoID)
	field := fieldLikes
	if action == domain.ActionDislike {
		field = fieldDislikes
	}

	var all *redis.MapStringStringCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key, fieldLikes, 0)
		pipe.HSetNX(ctx, key, fieldDislikes, 0)
		pipe.HIncrBy(ctx, key, field, 1)
		all = pipe.HGetAll(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("apply %s: %w", action, err)
	}
	return parseRating(videoID, all.Val())
}

func parseRating(videoID string, fields map[string]string) (*domain.VideoRating, error) {
	rating := domain.NewVideoRating(videoID)
	var err error
	if rating.Likes, err = parseCounter(fields, fieldLikes); err != nil {
		return nil, err
	}
	if rating.Dislikes, err = parseCounter(fields, fieldDislikes); err != nil {
		return nil, err
	}
	return rating, nil
}

func parseCounter(fields map[string]string, name string) (int64, error) {
	v, ok := fields[name]
	if !ok || v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt %s counter %q: %w", name, v, err)
	}
	return n, nil
}

var _ port.RatingStore = (*Store)(nil)
