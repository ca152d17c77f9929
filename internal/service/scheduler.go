package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bnema/vidshelf/internal/domain"
	"github.com/bnema/vidshelf/internal/infrastructure/logger"
	"github.com/bnema/vidshelf/internal/port"
)

// BatchProcessor runs one compression pass over a directory.
type BatchProcessor interface {
	ProcessAll(ctx context.Context, dir string) ([]domain.FileResult, error)
}

// CompressionRunner ties a batch pass to report persistence and optional
// cron scheduling.
type CompressionRunner struct {
	processor BatchProcessor
	reports   port.ReportStore
	dir       string
}

// NewCompressionRunner builds a runner for dir. reports may be nil.
func NewCompressionRunner(processor BatchProcessor, reports port.ReportStore, dir string) *CompressionRunner {
	return &CompressionRunner{
		processor: processor,
		reports:   reports,
		dir:       dir,
	}
}

func (r *CompressionRunner) RunOnce(ctx context.Context) (*domain.RunReport, error) {
	started := time.Now()
	results, err := r.processor.ProcessAll(ctx, r.dir)
	if err != nil {
		return nil, err
	}

	report := domain.NewRunReport(r.dir, started, results)
	if r.reports != nil {
		if err := r.reports.Append(report); err != nil {
			logger.Error.Printf("failed to save compression report: %v", err)
		}
	}
	return report, nil
}

// Schedule runs a pass on every tick of spec until ctx is cancelled. A tick
// that fires while a pass is still running is dropped.
func (r *CompressionRunner) Schedule(ctx context.Context, spec string) error {
	cronLog := cron.PrintfLogger(logger.Info)
	c := cron.New(cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)))

	_, err := c.AddFunc(spec, func() {
		if ctx.Err() != nil {
			return
		}
		logger.Info.Printf("scheduled compression of %s starting", r.dir)
		if _, err := r.RunOnce(ctx); err != nil {
			logger.Error.Printf("scheduled compression failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	c.Start()
	logger.Info.Printf("compression scheduled (%s) for %s", spec, r.dir)

	<-ctx.Done()
	logger.Info.Println("stopping scheduler, waiting for running pass")
	<-c.Stop().Done()
	return nil
}
