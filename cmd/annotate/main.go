// Command annotate scans a CellML corpus, runs the annotation pipeline
// over every extracted variable, and prints the corpus report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/physiome-tools/opbmap/internal/annotations"
	"github.com/physiome-tools/opbmap/internal/config"
	"github.com/physiome-tools/opbmap/internal/corpus"
	"github.com/physiome-tools/opbmap/internal/infrastructure"
	"github.com/physiome-tools/opbmap/internal/models"
	"github.com/physiome-tools/opbmap/internal/reports"
	"github.com/physiome-tools/opbmap/internal/variables"
	"github.com/physiome-tools/opbmap/pkg/pagination"
)

func main() {
	var (
		root     = flag.String("root", "", "Corpus root directory (overrides config)")
		skipScan = flag.Bool("skip-scan", false, "Annotate previously scanned models without rescanning")
		timeout  = flag.Duration("timeout", 30*time.Minute, "Overall run timeout")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}
	if *root != "" {
		cfg.Corpus.Root = *root
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		log.Fatal("infrastructure init failed:", err)
	}
	if err := infra.Start(); err != nil {
		log.Fatal("infrastructure start failed:", err)
	}
	infra.Lifecycle.WaitForStartup()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, cfg, infra, *skipScan); err != nil {
		infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration())
		log.Fatal("annotate failed:", err)
	}

	if err := infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		log.Fatal("shutdown failed:", err)
	}
}

func run(ctx context.Context, cfg *config.Config, infra *infrastructure.Infrastructure, skipScan bool) error {
	db := infra.Database.Connection()

	modelSys := models.New(db, infra.Storage, infra.Logger, cfg.API.Pagination)
	variableSys := variables.New(db, infra.Logger, cfg.API.Pagination)
	annotationSys := annotations.New(db, infra.Annotator, modelSys, variableSys, infra.Logger, cfg.API.Pagination)
	reportSys := reports.New(db, infra.Logger)

	if !skipScan {
		scanner := corpus.NewScanner(corpus.Config{
			Root:        cfg.Corpus.Root,
			Concurrency: cfg.Corpus.Concurrency,
		}, modelSys, variableSys, infra.Logger)

		result, err := scanner.Scan(ctx)
		if err != nil {
			return fmt.Errorf("scan corpus: %w", err)
		}
		fmt.Fprintf(os.Stderr, "scanned %d models, %d variables (%d failed)\n",
			result.Models, result.Variables, result.Failed)
	}

	if err := annotateAll(ctx, modelSys, annotationSys, infra.Logger); err != nil {
		return err
	}

	summary, err := reportSys.Summary(ctx)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	fmt.Print(summary.Render())
	return nil
}

// annotateAll pages through every scanned model and annotates each one.
// Models with no extracted variables (import-only CellML files) are
// skipped rather than aborting the run.
func annotateAll(ctx context.Context, modelSys models.System, annotationSys annotations.System, logger *slog.Logger) error {
	status := models.StatusScanned
	page := pagination.PageRequest{Page: 1, PageSize: 100}

	for {
		result, err := modelSys.List(ctx, page, models.Filters{Status: &status})
		if err != nil {
			return fmt.Errorf("list models: %w", err)
		}

		for _, m := range result.Data {
			_, err := annotationSys.AnnotateModel(ctx, m.ID)
			if errors.Is(err, annotations.ErrNoVariables) {
				// Flip the status anyway so the scanned page shrinks
				// and the loop terminates.
				if _, err := modelSys.MarkAnnotated(ctx, m.ID); err != nil {
					return fmt.Errorf("mark model %s annotated: %w", m.Path, err)
				}
				logger.Info("model has no variables, skipped", "path", m.Path)
				continue
			}
			if err != nil {
				return fmt.Errorf("annotate model %s: %w", m.Path, err)
			}
		}

		if len(result.Data) < page.PageSize {
			return nil
		}
		// Annotation flips status to annotated, shrinking the filtered
		// set, so the first page is always requested.
	}
}
