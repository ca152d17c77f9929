package redis

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/vidshelf/internal/domain"
)

func TestParseRating(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]string
		want    *domain.VideoRating
		wantErr bool
	}{
		{
			name:   "both counters",
			fields: map[string]string{"likes": "4", "dislikes": "2"},
			want:   &domain.VideoRating{VideoID: "v", Likes: 4, Dislikes: 2},
		},
		{
			name:   "missing fields read as zero",
			fields: map[string]string{},
			want:   &domain.VideoRating{VideoID: "v"},
		},
		{
			name:    "corrupt counter",
			fields:  map[string]string{"likes": "lots"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRating("v", tt.fields)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// newTestStore uses VIDSHELF_TEST_REDIS_ADDR with a random key prefix and
// deletes its keys afterwards.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	addr := os.Getenv("VIDSHELF_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("VIDSHELF_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())

	prefix := "vidshelf-test:" + uuid.NewString() + ":"
	store := NewStoreWithClient(client, prefix)

	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		_ = store.Close()
	})
	return store
}

func TestStore_GetRating_CreatesZeroRecord(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rating, err := store.GetRating(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, &domain.VideoRating{VideoID: "fresh"}, rating)

	exists, err := store.client.Exists(ctx, store.key("fresh")).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
}

func TestStore_ApplyAction(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rating, err := store.ApplyAction(ctx, "vid", domain.ActionDislike)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rating.Likes)
	assert.Equal(t, int64(1), rating.Dislikes)

	rating, err = store.ApplyAction(ctx, "vid", domain.ActionLike)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rating.Likes)

	got, err := store.GetRating(ctx, "vid")
	require.NoError(t, err)
	assert.Equal(t, rating, got)
}

func TestStore_ApplyAction_Concurrent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.ApplyAction(ctx, "busy", domain.ActionLike)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	rating, err := store.GetRating(ctx, "busy")
	require.NoError(t, err)
	assert.Equal(t, int64(20), rating.Likes)
}
