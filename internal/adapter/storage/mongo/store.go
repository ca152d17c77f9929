package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/bnema/vidshelf/internal/domain"
	"github.com/bnema/vidshelf/internal/port"
)

const (
	DefaultDatabase = "video_app"
	CollectionName  = "video_ratings"

	connectTimeout    = 10 * time.Second
	disconnectTimeout = 5 * time.Second
)

type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewStore connects to uri, verifies the connection and makes sure the
// videoId index exists.
func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	if database == "" {
		database = DefaultDatabase
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	s := &Store{
		client: client,
		coll:   client.Database(database).Collection(CollectionName),
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "videoId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("videoId_unique"),
	})
	if err != nil {
		return fmt.Errorf("create videoId index: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) GetRating(ctx context.Context, videoID string) (*domain.VideoRating, error) {
	update := bson.M{
		"$setOnInsert": bson.M{"likes": int64(0), "dislikes": int64(0), "createdAt": time.Now().UTC()},
	}
	rating, err := s.upsert(ctx, videoID, update)
	if err != nil {
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return rating, nil
}

func (s *Store) ApplyAction(ctx context.Context, videoID string, action domain.RatingAction) (*domain.VideoRating, error) {
	likes, dislikes := action.Deltas()
	update := bson.M{
		"$inc":         bson.M{"likes": likes, "dislikes": dislikes},
		"$setOnInsert": bson.M{"createdAt": time.Now().UTC()},
		"$currentDate": bson.M{"updatedAt": true},
	}
	rating, err := s.upsert(ctx, videoID, update)
	if err != nil {
		return nil, fmt.Errorf("apply %s: %w", action, err)
	}
	return rating, nil
}

// upsert runs a FindOneAndUpdate that creates the document when missing and
// returns it after the update. Two concurrent upserts of a new videoId can
// race on the unique index; the loser is retried once and then matches.
func (s *Store) upsert(ctx context.Context, videoID string, update bson.M) (*domain.VideoRating, error) {
	filter := bson.M{"videoId": videoID}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var rating domain.VideoRating
	err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&rating)
	if mongo.IsDuplicateKeyError(err) {
		err = s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&rating)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

var _ port.RatingStore = (*Store)(nil)
