package jsonfile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bnema/vidshelf/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReport(dir string, results ...domain.FileResult) *domain.RunReport {
	return domain.NewRunReport(dir, time.Now().Add(-time.Minute), results)
}

func TestNewReportStore(t *testing.T) {
	t.Run("creates store successfully", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ReportFileName)
		store, err := NewReportStore(path, 5)

		assert.NoError(t, err)
		assert.NotNil(t, store)
		reports, err := store.List()
		assert.NoError(t, err)
		assert.Empty(t, reports)
	})

	t.Run("creates missing parent directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "data", ReportFileName)

		_, err := NewReportStore(path, 5)

		assert.NoError(t, err)
		assert.DirExists(t, filepath.Dir(path))
	})

	t.Run("loads existing reports from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ReportFileName)
		existing := []*domain.RunReport{
			newReport("/a"),
			newReport("/b"),
		}
		data, _ := json.MarshalIndent(existing, "", "  ")
		require.NoError(t, os.WriteFile(path, data, 0600))

		store, err := NewReportStore(path, 5)

		require.NoError(t, err)
		reports, _ := store.List()
		require.Len(t, reports, 2)
		assert.Equal(t, "/a", reports[0].Dir)
		assert.Equal(t, "/b", reports[1].Dir)
	})

	t.Run("returns error for invalid JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ReportFileName)
		require.NoError(t, os.WriteFile(path, []byte("invalid json"), 0600))

		store, err := NewReportStore(path, 5)

		assert.Error(t, err)
		assert.Nil(t, store)
	})

	t.Run("accepts empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ReportFileName)
		require.NoError(t, os.WriteFile(path, nil, 0600))

		store, err := NewReportStore(path, 5)

		assert.NoError(t, err)
		assert.NotNil(t, store)
	})

	t.Run("non-positive max uses default", func(t *testing.T) {
		store, err := NewReportStore(filepath.Join(t.TempDir(), ReportFileName), 0)

		require.NoError(t, err)
		assert.Equal(t, DefaultMaxReports, store.limit)
	})
}

func TestReportStore_Append(t *testing.T) {
	t.Run("persists to disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ReportFileName)
		store, err := NewReportStore(path, 5)
		require.NoError(t, err)

		report := newReport("/videos",
			domain.FileResult{Name: "a.mp4", Outcome: domain.OutcomeReplaced, OriginalBytes: 100, FinalBytes: 25},
			domain.FileResult{Name: "b.mp4", Outcome: domain.OutcomeFailed, ErrorMessage: "encode failed"},
		)
		require.NoError(t, store.Append(report))

		reopened, err := NewReportStore(path, 5)
		require.NoError(t, err)
		reports, _ := reopened.List()
		require.Len(t, reports, 1)
		assert.Equal(t, 2, reports[0].Stats.Total)
		assert.Equal(t, int64(75), reports[0].Stats.SpaceSaved())
		assert.Equal(t, "encode failed", reports[0].Results[1].ErrorMessage)

		_, err = os.Stat(path + ".tmp")
		assert.True(t, errors.Is(err, os.ErrNotExist), "temp file should be renamed away")
	})

	t.Run("keeps only the most recent reports", func(t *testing.T) {
		store, err := NewReportStore(filepath.Join(t.TempDir(), ReportFileName), 3)
		require.NoError(t, err)

		for _, dir := range []string{"/1", "/2", "/3", "/4", "/5"} {
			require.NoError(t, store.Append(newReport(dir)))
		}

		reports, _ := store.List()
		require.Len(t, reports, 3)
		assert.Equal(t, "/3", reports[0].Dir)
		assert.Equal(t, "/5", reports[2].Dir)
	})

	t.Run("trims an oversized file on load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ReportFileName)
		existing := []*domain.RunReport{newReport("/1"), newReport("/2"), newReport("/3")}
		data, _ := json.Marshal(existing)
		require.NoError(t, os.WriteFile(path, data, 0600))

		store, err := NewReportStore(path, 2)
		require.NoError(t, err)

		reports, _ := store.List()
		require.Len(t, reports, 2)
		assert.Equal(t, "/2", reports[0].Dir)
	})
}

func TestReportStore_ListReturnsCopy(t *testing.T) {
	store, err := NewReportStore(filepath.Join(t.TempDir(), ReportFileName), 5)
	require.NoError(t, err)
	require.NoError(t, store.Append(newReport("/a")))

	reports, _ := store.List()
	reports[0] = nil

	again, _ := store.List()
	assert.NotNil(t, again[0])
}

func TestReportStore_ConcurrentAppend(t *testing.T) {
	store, err := NewReportStore(filepath.Join(t.TempDir(), ReportFileName), 100)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Append(newReport("/videos")))
		}()
	}
	wg.Wait()

	reports, _ := store.List()
	assert.Len(t, reports, 10)
}
