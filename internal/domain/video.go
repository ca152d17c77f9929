package domain

import (
	"encoding/base32"
	"path"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

type VideoSourceKind string

const (
	SourceLocal VideoSourceKind = "local"
	SourceR2    VideoSourceKind = "r2"
)

// ObjectInfo is one listed file, local or remote.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

type Video struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Source       VideoSourceKind `json:"source"`
	Size         string          `json:"size"`
	SizeBytes    int64           `json:"sizeBytes"`
	Timestamp    string          `json:"timestamp"`
	LastModified time.Time       `json:"lastModified"`
	VideoURL     string          `json:"videoUrl"`
}

// VideoID derives a stable identifier from an object key, so ratings stay
// attached to the same file whatever the listing order.
func VideoID(key string) string {
	sum := blake2b.Sum256([]byte(key))
	return strings.ToLower(base32.StdEncoding.EncodeToString(sum[:]))[:10]
}

// NewVideo builds the listing entry for obj. urlBase is prefixed to the key
// to form the playback URL.
func NewVideo(source VideoSourceKind, obj ObjectInfo, urlBase string) Video {
	name := path.Base(obj.Key)
	title := strings.TrimSuffix(name, path.Ext(name))

	timestamp := "Unknown"
	if !obj.LastModified.IsZero() {
		timestamp = obj.LastModified.Format("2006-01-02")
	}

	return Video{
		ID:           VideoID(obj.Key),
		Title:        title,
		Source:       source,
		Size:         FormatSizeMB(obj.Size),
		SizeBytes:    obj.Size,
		Timestamp:    timestamp,
		LastModified: obj.LastModified,
		VideoURL:     strings.TrimSuffix(urlBase, "/") + "/" + obj.Key,
	}
}

// FilterVideos keeps only objects whose key has a recognized video extension.
func FilterVideos(objects []ObjectInfo) []ObjectInfo {
	videos := make([]ObjectInfo, 0, len(objects))
	for _, obj := range objects {
		if IsVideoFile(obj.Key) {
			videos = append(videos, obj)
		}
	}
	return videos
}
