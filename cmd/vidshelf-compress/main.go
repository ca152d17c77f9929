package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bnema/vidshelf/config"
	"github.com/bnema/vidshelf/internal/adapter/converter/ffmpeg"
	"github.com/bnema/vidshelf/internal/adapter/storage/jsonfile"
	"github.com/bnema/vidshelf/internal/domain"
	"github.com/bnema/vidshelf/internal/infrastructure/logger"
	"github.com/bnema/vidshelf/internal/port"
	"github.com/bnema/vidshelf/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error.Printf("failed to load config: %v", err)
		os.Exit(1)
	}

	dir := flag.String("dir", cfg.VideosDir, "directory holding the videos to compress")
	targetMB := flag.Float64("target-mb", cfg.Compress.TargetSizeMB, "target size per file in MB")
	maxHeight := flag.Int("max-height", cfg.Compress.MaxHeight, "maximum output height in pixels")
	schedule := flag.String("schedule", cfg.Compress.Schedule, "cron spec to run repeatedly, empty runs once")
	reportPath := flag.String("report", filepath.Join(cfg.DataDir, jsonfile.ReportFileName), "run report file, empty disables reports")
	verbose := flag.Bool("verbose", false, "debug logging and encoder output on stderr")
	flag.Parse()

	level := cfg.LogLevel
	if *verbose {
		level = "debug"
	}
	if err := logger.SetLevel(level); err != nil {
		logger.Warn.Printf("%v, keeping info", err)
	}

	cfg.Compress.TargetSizeMB = *targetMB
	cfg.Compress.MaxHeight = *maxHeight
	if err := cfg.Compress.Validate(); err != nil {
		logger.Error.Printf("invalid flags: %v", err)
		os.Exit(2)
	}

	var stderrTee io.Writer
	if *verbose {
		stderrTee = os.Stderr
	}
	converter := ffmpeg.NewConverter(ffmpeg.NewExecRunner(stderrTee))
	compressor := service.NewCompressionService(converter, converter, cfg.Compress.Plan())

	var reports port.ReportStore
	if *reportPath != "" {
		store, err := jsonfile.NewReportStore(*reportPath, jsonfile.DefaultMaxReports)
		if err != nil {
			logger.Error.Printf("failed to open report store: %v", err)
			os.Exit(1)
		}
		reports = store
	}

	runner := service.NewCompressionRunner(compressor, reports, *dir)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *schedule != "" {
		logger.Info.Printf("compressing %s on schedule %q", *dir, *schedule)
		if err := runner.Schedule(ctx, *schedule); err != nil {
			logger.Error.Printf("%v", err)
			os.Exit(1)
		}
		logger.Info.Printf("scheduler stopped")
		return
	}

	report, err := runner.RunOnce(ctx)
	if err != nil {
		logger.Error.Printf("compression failed: %v", err)
		os.Exit(1)
	}
	logger.Info.Printf("%d files, %d replaced, %s saved",
		len(report.Results), report.Stats.Replaced, domain.FormatSize(report.Stats.SpaceSaved()))
}
