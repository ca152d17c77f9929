package domain

import "time"

// Outcome is the final disposition of one file in a compression run.
type Outcome string

const (
	OutcomeSkipped      Outcome = "skipped"
	OutcomeReplaced     Outcome = "replaced"
	OutcomeKeptOriginal Outcome = "kept_original"
	OutcomeFailed       Outcome = "failed"
)

type FileResult struct {
	Name          string           `json:"name"`
	Path          string           `json:"path"`
	Outcome       Outcome          `json:"outcome"`
	OriginalBytes int64            `json:"original_bytes"`
	FinalBytes    int64            `json:"final_bytes"`
	Plan          *CompressionPlan `json:"plan,omitempty"`
	Err           error            `json:"-"`
	ErrorMessage  string           `json:"error,omitempty"`
}

// Fail marks the result failed and records err.
func (r *FileResult) Fail(err error) {
	r.Outcome = OutcomeFailed
	r.Err = err
	r.ErrorMessage = err.Error()
}

// Reduction returns the percentage of the original size saved. Zero unless
// the original was replaced.
func (r *FileResult) Reduction() float64 {
	if r.Outcome != OutcomeReplaced || r.OriginalBytes <= 0 {
		return 0
	}
	return float64(r.OriginalBytes-r.FinalBytes) / float64(r.OriginalBytes) * 100
}

type RunStats struct {
	Total            int   `json:"total"`
	Replaced         int   `json:"replaced"`
	KeptOriginal     int   `json:"kept_original"`
	Failed           int   `json:"failed"`
	Skipped          int   `json:"skipped"`
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
}

func (s *RunStats) Add(r FileResult) {
	s.Total++
	switch r.Outcome {
	case OutcomeReplaced:
		s.Replaced++
		s.TotalInputBytes += r.OriginalBytes
		s.TotalOutputBytes += r.FinalBytes
	case OutcomeKeptOriginal:
		s.KeptOriginal++
	case OutcomeFailed:
		s.Failed++
	case OutcomeSkipped:
		s.Skipped++
	}
}

// SpaceSaved is the byte difference across replaced files only.
func (s *RunStats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}

type RunReport struct {
	Dir        string       `json:"dir"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Results    []FileResult `json:"results"`
	Stats      RunStats     `json:"stats"`
}

func NewRunReport(dir string, startedAt time.Time, results []FileResult) *RunReport {
	report := &RunReport{
		Dir:        dir,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Results:    results,
	}
	for _, r := range results {
		report.Stats.Add(r)
	}
	return report
}
