package port

import (
	"context"

	"github.com/bnema/vidshelf/internal/domain"
)

// ExecResult is the structured outcome of one external process run.
type ExecResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (r ExecResult) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ExecResult
}

type MediaProber interface {
	Probe(ctx context.Context, path string) (domain.MediaProbe, error)
}

type MediaEncoder interface {
	Encode(ctx context.Context, inputPath, outputPath string, plan domain.CompressionPlan) error
}
