package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"

	"github.com/bnema/vidshelf/internal/domain"
	"github.com/bnema/vidshelf/internal/port"
)

//go:embed migrations/*.sql
var migrations embed.FS

const DBFileName = "vidshelf.db"

type Store struct {
	db *sql.DB
}

var hookOnce sync.Once

func registerHook() {
	hookOnce.Do(func() {
		sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, dsn string) error {
			pragmas := []string{
				"PRAGMA journal_mode = WAL",
				"PRAGMA busy_timeout = 5000",
				"PRAGMA synchronous = NORMAL",
				"PRAGMA cache_size = -8000", // 8MB
			}
			for _, p := range pragmas {
				if _, err := conn.ExecContext(context.Background(), p, nil); err != nil {
					return fmt.Errorf("execute %s: %w", p, err)
				}
			}
			return nil
		})
	})
}

func NewStore(dataDir string) (*Store, error) {
	registerHook()

	dbPath := filepath.Join(dataDir, DBFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single connection for SQLite (WAL allows concurrent reads but only one writer)
	db.SetMaxOpenConns(1)

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) DB() *sql.DB {
	return s.db
}

const (
	insertRatingSQL = `INSERT INTO video_ratings (video_id) VALUES (?)
ON CONFLICT(video_id) DO NOTHING`

	selectRatingSQL = `SELECT likes, dislikes FROM video_ratings WHERE video_id = ?`

	applyActionSQL = `INSERT INTO video_ratings (video_id, likes, dislikes) VALUES (?, ?, ?)
ON CONFLICT(video_id) DO UPDATE SET
    likes = likes + excluded.likes,
    dislikes = dislikes + excluded.dislikes,
    updated_at = CURRENT_TIMESTAMP
RETURNING likes, dislikes`
)

func (s *Store) GetRating(ctx context.Context, videoID string) (*domain.VideoRating, error) {
	if _, err := s.db.ExecContext(ctx, insertRatingSQL, videoID); err != nil {
		return nil, fmt.Errorf("create rating: %w", err)
	}

	rating := domain.NewVideoRating(videoID)
	err := s.db.QueryRowContext(ctx, selectRatingSQL, videoID).Scan(&rating.Likes, &rating.Dislikes)
	if err != nil {
		return nil, fmt.Errorf("read rating: %w", err)
	}
	return rating, nil
}

func (s *Store) ApplyAction(ctx context.Context, videoID string, action domain.RatingAction) (*domain.VideoRating, error) {
	likes, dislikes := action.Deltas()

	rating := domain.NewVideoRating(videoID)
	err := s.db.QueryRowContext(ctx, applyActionSQL, videoID, likes, dislikes).Scan(&rating.Likes, &rating.Dislikes)
	if err != nil {
		return nil, fmt.Errorf("apply %s: %w", action, err)
	}
	return rating, nil
}

var _ port.RatingStore = (*Store)(nil)
