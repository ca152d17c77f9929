package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/vidshelf/internal/domain"
	"github.com/bnema/vidshelf/internal/port/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func localSource(t *testing.T, objects []domain.ObjectInfo, err error) *mocks.VideoSourceMock {
	src := mocks.NewVideoSourceMock(t)
	src.On("ListVideos", mock.Anything).Return(objects, err)
	src.On("Kind").Return(domain.SourceLocal).Maybe()
	src.On("URLBase").Return("/videos").Maybe()
	return src
}

func TestCatalogService_List_MergesSourcesInOrder(t *testing.T) {
	modified := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	local := localSource(t, []domain.ObjectInfo{
		{Key: "intro.mp4", Size: 3 * 1024 * 1024, LastModified: modified},
		{Key: "notes.txt", Size: 10},
	}, nil)

	remote := mocks.NewVideoSourceMock(t)
	remote.On("ListVideos", mock.Anything).Return([]domain.ObjectInfo{{Key: "talks/keynote.webm", Size: 1024}}, nil)
	remote.On("Kind").Return(domain.SourceR2)
	remote.On("URLBase").Return("https://cdn.example.com/")

	videos := NewCatalogService(local, remote).List(context.Background())

	require.Len(t, videos, 2)
	assert.Equal(t, "intro", videos[0].Title)
	assert.Equal(t, "/videos/intro.mp4", videos[0].VideoURL)
	assert.Equal(t, "2024-03-09", videos[0].Timestamp)
	assert.Equal(t, "3.00 MB", videos[0].Size)
	assert.Equal(t, domain.SourceR2, videos[1].Source)
	assert.Equal(t, "https://cdn.example.com/talks/keynote.webm", videos[1].VideoURL)
	assert.Equal(t, domain.VideoID("talks/keynote.webm"), videos[1].ID)
}

func TestCatalogService_List_SkipsFailingSource(t *testing.T) {
	failing := mocks.NewVideoSourceMock(t)
	failing.On("ListVideos", mock.Anything).Return(nil, errors.New("access denied"))
	failing.On("Kind").Return(domain.SourceR2)

	local := localSource(t, []domain.ObjectInfo{{Key: "a.mp4"}}, nil)

	videos := NewCatalogService(failing, local).List(context.Background())

	require.Len(t, videos, 1)
	assert.Equal(t, "a", videos[0].Title)
}

func TestCatalogService_List_NoSources(t *testing.T) {
	videos := NewCatalogService(nil).List(context.Background())

	assert.NotNil(t, videos)
	assert.Empty(t, videos)
}

func TestCatalogService_Find(t *testing.T) {
	local := localSource(t, []domain.ObjectInfo{{Key: "a.mp4"}, {Key: "b.mkv"}}, nil)
	svc := NewCatalogService(local)

	v, err := svc.Find(context.Background(), domain.VideoID("b.mkv"))
	require.NoError(t, err)
	assert.Equal(t, "b", v.Title)

	_, err = svc.Find(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
