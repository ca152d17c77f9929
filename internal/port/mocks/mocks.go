// Package mocks provides testify mocks for the port interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/vidshelf/internal/domain"
	"github.com/bnema/vidshelf/internal/port"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type MediaProberMock struct {
	mock.Mock
}

func NewMediaProberMock(t testingT) *MediaProberMock {
	m := &MediaProberMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MediaProberMock) Probe(ctx context.Context, path string) (domain.MediaProbe, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(domain.MediaProbe), args.Error(1)
}

type MediaEncoderMock struct {
	mock.Mock
}

func NewMediaEncoderMock(t testingT) *MediaEncoderMock {
	m := &MediaEncoderMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MediaEncoderMock) Encode(ctx context.Context, inputPath, outputPath string, plan domain.CompressionPlan) error {
	args := m.Called(ctx, inputPath, outputPath, plan)
	return args.Error(0)
}

type CommandRunnerMock struct {
	mock.Mock
}

func NewCommandRunnerMock(t testingT) *CommandRunnerMock {
	m := &CommandRunnerMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CommandRunnerMock) Run(ctx context.Context, name string, args ...string) port.ExecResult {
	called := m.Called(ctx, name, args)
	return called.Get(0).(port.ExecResult)
}

type RatingStoreMock struct {
	mock.Mock
}

func NewRatingStoreMock(t testingT) *RatingStoreMock {
	m := &RatingStoreMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *RatingStoreMock) GetRating(ctx context.Context, videoID string) (*domain.VideoRating, error) {
	args := m.Called(ctx, videoID)
	rating, _ := args.Get(0).(*domain.VideoRating)
	return rating, args.Error(1)
}

func (m *RatingStoreMock) ApplyAction(ctx context.Context, videoID string, action domain.RatingAction) (*domain.VideoRating, error) {
	args := m.Called(ctx, videoID, action)
	rating, _ := args.Get(0).(*domain.VideoRating)
	return rating, args.Error(1)
}

func (m *RatingStoreMock) Close() error {
	return m.Called().Error(0)
}

type VideoSourceMock struct {
	mock.Mock
}

func NewVideoSourceMock(t testingT) *VideoSourceMock {
	m := &VideoSourceMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *VideoSourceMock) Kind() domain.VideoSourceKind {
	return m.Called().Get(0).(domain.VideoSourceKind)
}

func (m *VideoSourceMock) URLBase() string {
	return m.Called().String(0)
}

func (m *VideoSourceMock) ListVideos(ctx context.Context) ([]domain.ObjectInfo, error) {
	args := m.Called(ctx)
	objects, _ := args.Get(0).([]domain.ObjectInfo)
	return objects, args.Error(1)
}

var (
	_ port.MediaProber   = (*MediaProberMock)(nil)
	_ port.MediaEncoder  = (*MediaEncoderMock)(nil)
	_ port.CommandRunner = (*CommandRunnerMock)(nil)
	_ port.RatingStore   = (*RatingStoreMock)(nil)
	_ port.VideoSource   = (*VideoSourceMock)(nil)
)
