package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"

	"github.com/bnema/vidshelf/internal/port"
)

// ExecRunner runs external binaries and captures their output. When
// StderrTee is set, stderr is also streamed there as it is produced.
type ExecRunner struct {
	StderrTee io.Writer
}

func NewExecRunner(stderrTee io.Writer) *ExecRunner {
	return &ExecRunner{StderrTee: stderrTee}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) port.ExecResult {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	if r.StderrTee != nil {
		cmd.Stderr = io.MultiWriter(&stderr, r.StderrTee)
	} else {
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			code = -1
		}
	}

	return port.ExecResult{
		ExitCode: code,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Err:      err,
	}
}

var _ port.CommandRunner = (*ExecRunner)(nil)
