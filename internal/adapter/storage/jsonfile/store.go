package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/vidshelf/internal/domain"
	"github.com/bnema/vidshelf/internal/port"
)

const (
	ReportFileName    = "compress-reports.json"
	DefaultMaxReports = 20
)

// ReportStore keeps the most recent compression run reports in a single
// JSON file, oldest first.
type ReportStore struct {
	mu      sync.RWMutex
	path    string
	limit   int
	reports []*domain.RunReport
}

// NewReportStore opens or creates the report file at path. limit <= 0 falls
// back to DefaultMaxReports.
func NewReportStore(path string, limit int) (*ReportStore, error) {
	if limit <= 0 {
		limit = DefaultMaxReports
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}

	store := &ReportStore{
		path:  path,
		limit: limit,
	}

	if err := store.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	return store, nil
}

func (s *ReportStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	if len(data) == 0 {
		return nil
	}

	var reports []*domain.RunReport
	if err := json.Unmarshal(data, &reports); err != nil {
		return fmt.Errorf("decode %s: %w", s.path, err)
	}
	s.reports = s.trim(reports)

	return nil
}

func (s *ReportStore) trim(reports []*domain.RunReport) []*domain.RunReport {
	if len(reports) > s.limit {
		return reports[len(reports)-s.limit:]
	}
	return reports
}

func (s *ReportStore) save() error {
	tmpPath := s.path + ".tmp"

	data, err := json.MarshalIndent(s.reports, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}

	return os.Rename(tmpPath, s.path)
}

func (s *ReportStore) Append(report *domain.RunReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports = s.trim(append(s.reports, report))
	return s.save()
}

// List returns the stored reports, oldest first.
func (s *ReportStore) List() ([]*domain.RunReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.RunReport, len(s.reports))
	copy(out, s.reports)
	return out, nil
}

var _ port.ReportStore = (*ReportStore)(nil)
