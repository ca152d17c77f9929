package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/vidshelf/internal/domain"
	"github.com/bnema/vidshelf/internal/port"
)

var (
	ErrEmptyPath   = errors.New("path is empty")
	ErrInvalidPath = errors.New("path contains a null byte")
)

// stderrTailLines bounds how much encoder output ends up in an error.
const stderrTailLines = 10

type Converter struct {
	runner      port.CommandRunner
	ffmpegPath  string
	ffprobePath string
}

func NewConverter(runner port.CommandRunner) *Converter {
	return &Converter{
		runner:      runner,
		ffmpegPath:  "ffmpeg",
		ffprobePath: "ffprobe",
	}
}

func validatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}
	return nil
}

func ProbeArgs(inputPath string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration:stream=width,height",
		"-of", "default=noprint_wrappers=1:nokey=0",
		inputPath,
	}
}

// Probe reads duration and frame size. Output that cannot be parsed yields
// zero values, which fail validation with domain.ErrProbe.
func (c *Converter) Probe(ctx context.Context, inputPath string) (domain.MediaProbe, error) {
	if err := validatePath(inputPath); err != nil {
		return domain.MediaProbe{}, fmt.Errorf("%w: invalid input path: %w", domain.ErrProbe, err)
	}

	res := c.runner.Run(ctx, c.ffprobePath, ProbeArgs(inputPath)...)
	if !res.Success() {
		return domain.MediaProbe{}, fmt.Errorf("%w: ffprobe exited %d: %s", domain.ErrProbe, res.ExitCode, tail(res.Stderr, res.Err))
	}

	kv := ParseKeyValues(res.Stdout)
	probe := domain.MediaProbe{
		DurationSeconds: kv.Float("duration"),
		Width:           kv.Int("width"),
		Height:          kv.Int("height"),
	}
	if err := probe.Validate(); err != nil {
		return probe, err
	}
	return probe, nil
}

func EncodeArgs(inputPath, outputPath string, plan domain.CompressionPlan) []string {
	return []string{
		"-i", inputPath,
		"-c:v", plan.Profile.VideoEncoder(),
		"-b:v", strconv.Itoa(plan.VideoBitrateKbps) + "k",
		"-crf", strconv.Itoa(plan.Profile.CRF()),
		"-c:a", plan.Profile.AudioEncoder(),
		"-b:a", strconv.Itoa(plan.AudioBitrateKbps) + "k",
		"-vf", plan.ScaleFilter(),
		"-y", outputPath,
	}
}

// Encode writes the compressed rendition to outputPath, overwriting it.
// Cleaning up a partial output is the caller's job.
func (c *Converter) Encode(ctx context.Context, inputPath, outputPath string, plan domain.CompressionPlan) error {
	if err := validatePath(inputPath); err != nil {
		return fmt.Errorf("%w: invalid input path: %w", domain.ErrEncode, err)
	}
	if err := validatePath(outputPath); err != nil {
		return fmt.Errorf("%w: invalid output path: %w", domain.ErrEncode, err)
	}

	res := c.runner.Run(ctx, c.ffmpegPath, EncodeArgs(inputPath, outputPath, plan)...)
	if !res.Success() {
		return fmt.Errorf("%w: ffmpeg exited %d: %s", domain.ErrEncode, res.ExitCode, tail(res.Stderr, res.Err))
	}
	return nil
}

func tail(stderr string, err error) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	if len(lines) > stderrTailLines {
		lines = lines[len(lines)-stderrTailLines:]
	}
	out := strings.Join(lines, " | ")
	if out == "" && err != nil {
		return err.Error()
	}
	return out
}

var (
	_ port.MediaProber  = (*Converter)(nil)
	_ port.MediaEncoder = (*Converter)(nil)
)
