package localfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/vidshelf/internal/domain"
	"github.com/bnema/vidshelf/internal/port"
)

// DefaultURLBase is the route local files are served under.
const DefaultURLBase = "/videos"

// Lister lists the video files directly inside one directory.
type Lister struct {
	dir     string
	urlBase string
}

func NewLister(dir, urlBase string) *Lister {
	if urlBase == "" {
		urlBase = DefaultURLBase
	}
	return &Lister{dir: dir, urlBase: urlBase}
}

func (l *Lister) Kind() domain.VideoSourceKind {
	return domain.SourceLocal
}

func (l *Lister) URLBase() string {
	return l.urlBase
}

func (l *Lister) Dir() string {
	return l.dir
}

// ListVideos skips directories, unknown extensions and leftover encode
// outputs. Entries come back in name order.
func (l *Lister) ListVideos(ctx context.Context) ([]domain.ObjectInfo, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", l.dir, err)
	}

	var objects []domain.ObjectInfo
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !domain.IsVideoFile(e.Name()) || domain.IsTempArtifact(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		objects = append(objects, domain.ObjectInfo{
			Key:          e.Name(),
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
	}
	return objects, nil
}

// Open returns the named file if it is a listed video. name must be a bare
// file name.
func (l *Lister) Open(name string) (*os.File, os.FileInfo, error) {
	if name != filepath.Base(name) || !domain.IsVideoFile(name) || domain.IsTempArtifact(name) {
		return nil, nil, domain.ErrNotFound
	}
	f, err := os.Open(filepath.Join(l.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, nil, domain.ErrNotFound
	}
	return f, info, nil
}

var _ port.VideoSource = (*Lister)(nil)
