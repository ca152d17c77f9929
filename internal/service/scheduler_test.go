package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/vidshelf/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcessor struct {
	results []domain.FileResult
	err     error
	calls   chan string
}

func (f *fakeProcessor) ProcessAll(_ context.Context, dir string) ([]domain.FileResult, error) {
	if f.calls != nil {
		select {
		case f.calls <- dir:
		default:
		}
	}
	return f.results, f.err
}

type memoryReports struct {
	saved []*domain.RunReport
	err   error
}

func (m *memoryReports) Append(report *domain.RunReport) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, report)
	return nil
}

func (m *memoryReports) List() ([]*domain.RunReport, error) {
	return m.saved, nil
}

func TestCompressionRunner_RunOnce(t *testing.T) {
	proc := &fakeProcessor{results: []domain.FileResult{
		{Name: "a.mp4", Outcome: domain.OutcomeReplaced, OriginalBytes: 100, FinalBytes: 40},
		{Name: "b.mp4", Outcome: domain.OutcomeSkipped},
	}}
	reports := &memoryReports{}

	report, err := NewCompressionRunner(proc, reports, "/videos").RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/videos", report.Dir)
	assert.Equal(t, 2, report.Stats.Total)
	assert.Equal(t, int64(60), report.Stats.SpaceSaved())
	assert.False(t, report.FinishedAt.Before(report.StartedAt))
	require.Len(t, reports.saved, 1)
	assert.Same(t, report, reports.saved[0])
}

func TestCompressionRunner_RunOnce_DirectoryError(t *testing.T) {
	proc := &fakeProcessor{err: errors.New("read videos directory: permission denied")}
	reports := &memoryReports{}

	report, err := NewCompressionRunner(proc, reports, "/videos").RunOnce(context.Background())

	assert.Error(t, err)
	assert.Nil(t, report)
	assert.Empty(t, reports.saved)
}

func TestCompressionRunner_RunOnce_ReportFailureIsNotFatal(t *testing.T) {
	proc := &fakeProcessor{}
	reports := &memoryReports{err: errors.New("disk full")}

	report, err := NewCompressionRunner(proc, reports, "/videos").RunOnce(context.Background())

	assert.NoError(t, err)
	assert.NotNil(t, report)
}

func TestCompressionRunner_RunOnce_NilReportStore(t *testing.T) {
	report, err := NewCompressionRunner(&fakeProcessor{}, nil, "/videos").RunOnce(context.Background())

	assert.NoError(t, err)
	assert.NotNil(t, report)
}

func TestCompressionRunner_Schedule_InvalidSpec(t *testing.T) {
	err := NewCompressionRunner(&fakeProcessor{}, nil, "/videos").Schedule(context.Background(), "not a schedule")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schedule")
}

func TestCompressionRunner_Schedule_RunsUntilCancelled(t *testing.T) {
	proc := &fakeProcessor{calls: make(chan string, 1)}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- NewCompressionRunner(proc, nil, "/videos").Schedule(ctx, "@every 1s")
	}()

	select {
	case dir := <-proc.calls:
		assert.Equal(t, "/videos", dir)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled pass never ran")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
