package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/vidshelf/internal/domain"
	"github.com/bnema/vidshelf/internal/infrastructure/logger"
	"github.com/bnema/vidshelf/internal/port"
)

type CompressionService struct {
	prober  port.MediaProber
	encoder port.MediaEncoder
	cfg     domain.PlanConfig
}

func NewCompressionService(prober port.MediaProber, encoder port.MediaEncoder, cfg domain.PlanConfig) *CompressionService {
	return &CompressionService{
		prober:  prober,
		encoder: encoder,
		cfg:     cfg,
	}
}

func TempPath(path string) string {
	return filepath.Join(filepath.Dir(path), domain.TempFilePrefix+filepath.Base(path))
}

// ProcessOne compresses a single file in place. On return the original is
// either untouched or fully replaced by a strictly smaller file, and no
// temp file is left behind.
func (s *CompressionService) ProcessOne(ctx context.Context, path string) domain.FileResult {
	name := filepath.Base(path)
	safeName := logger.SanitizeForLog(name)
	result := domain.FileResult{Name: name, Path: path}

	info, err := os.Stat(path)
	if err != nil {
		result.Fail(fmt.Errorf("stat %s: %w", name, err))
		logger.Error.Printf("%s: %v", safeName, err)
		return result
	}
	result.OriginalBytes = info.Size()
	result.FinalBytes = info.Size()

	sizeMB := domain.BytesToMB(info.Size())
	logger.Info.Printf("processing %s (%.2f MB)", safeName, sizeMB)

	if sizeMB <= s.cfg.TargetSizeMB {
		result.Outcome = domain.OutcomeSkipped
		logger.Info.Printf("%s is already at most %gMB, skipping", safeName, s.cfg.TargetSizeMB)
		return result
	}

	probe, err := s.prober.Probe(ctx, path)
	if err != nil {
		if !errors.Is(err, domain.ErrProbe) {
			err = fmt.Errorf("%w: %w", domain.ErrProbe, err)
		}
		result.Fail(err)
		logger.Error.Printf("%s: %v", safeName, err)
		return result
	}

	plan := domain.BuildPlan(path, probe, s.cfg)
	result.Plan = &plan
	logger.Info.Printf("%s: %s, %dx%d -> %dx%d, video %s (%s)",
		safeName, domain.FormatDuration(probe.DurationSeconds), probe.Width, probe.Height, plan.Width, plan.Height,
		domain.FormatBitrateKbps(plan.VideoBitrateKbps), plan.Profile)

	tempPath := TempPath(path)
	if _, err := os.Stat(tempPath); err == nil {
		logger.Warn.Printf("%s: overwriting existing %s", safeName, logger.SanitizeForLog(filepath.Base(tempPath)))
	}
	if err := s.encoder.Encode(ctx, path, tempPath, plan); err != nil {
		removeIfExists(tempPath)
		if !errors.Is(err, domain.ErrEncode) {
			err = fmt.Errorf("%w: %w", domain.ErrEncode, err)
		}
		result.Fail(err)
		logger.Error.Printf("%s: compression failed, keeping original: %v", safeName, err)
		return result
	}

	tempInfo, err := os.Stat(tempPath)
	if err != nil {
		removeIfExists(tempPath)
		result.Fail(fmt.Errorf("%w: output missing: %w", domain.ErrEncode, err))
		logger.Error.Printf("%s: %v", safeName, result.Err)
		return result
	}

	if tempInfo.Size() >= info.Size() {
		removeIfExists(tempPath)
		result.Outcome = domain.OutcomeKeptOriginal
		result.Err = domain.ErrNoImprovement
		logger.Warn.Printf("%s: compressed output is %s vs %s original, keeping original",
			safeName, domain.FormatSize(tempInfo.Size()), domain.FormatSize(info.Size()))
		return result
	}

	if err := os.Rename(tempPath, path); err != nil {
		removeIfExists(tempPath)
		result.Fail(fmt.Errorf("replace original: %w", err))
		logger.Error.Printf("%s: %v", safeName, result.Err)
		return result
	}

	result.Outcome = domain.OutcomeReplaced
	result.FinalBytes = tempInfo.Size()
	logger.Info.Printf("%s: compressed to %.2f MB (%.1f%% reduction)",
		safeName, domain.BytesToMB(result.FinalBytes), result.Reduction())
	return result
}

// ProcessAll compresses every recognized video file directly inside dir, in
// name order, one at a time. Per-file failures are recorded and never stop
// the batch; only an unreadable directory is an error.
func (s *CompressionService) ProcessAll(ctx context.Context, dir string) ([]domain.FileResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read videos directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !domain.IsVideoFile(e.Name()) {
			continue
		}
		// Leftovers of an interrupted run; encoding them would write temp_temp_*.
		if domain.IsTempArtifact(e.Name()) {
			logger.Debug.Printf("skipping leftover %s", logger.SanitizeForLog(e.Name()))
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}

	if len(files) == 0 {
		logger.Info.Printf("no video files found in %s", dir)
		return nil, nil
	}
	logger.Info.Printf("found %d video files, target %gMB, max %dp", len(files), s.cfg.TargetSizeMB, s.cfg.MaxHeight)

	results := make([]domain.FileResult, 0, len(files))
	for _, path := range files {
		if ctx.Err() != nil {
			logger.Warn.Printf("interrupted, %d files not processed", len(files)-len(results))
			break
		}
		results = append(results, s.ProcessOne(ctx, path))
	}

	stats := Summarize(results)
	logger.Info.Printf("compression complete: replaced=%d kept=%d failed=%d skipped=%d saved=%s",
		stats.Replaced, stats.KeptOriginal, stats.Failed, stats.Skipped, domain.FormatSize(stats.SpaceSaved()))
	return results, nil
}

func Summarize(results []domain.FileResult) domain.RunStats {
	var stats domain.RunStats
	for _, r := range results {
		stats.Add(r)
	}
	return stats
}

func removeIfExists(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Error.Printf("failed to remove %s: %v", logger.SanitizeForLog(path), err)
	}
}
