// Package consolidate orchestrates a full run: discover → per-file
// transform → merge → group/filter, with per-file failure isolation.
package consolidate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MitxelSantos/pai-consolidator/internal/config"
	"github.com/MitxelSantos/pai-consolidator/internal/discover"
	"github.com/MitxelSantos/pai-consolidator/internal/merge"
	"github.com/MitxelSantos/pai-consolidator/internal/model"
	"github.com/MitxelSantos/pai-consolidator/internal/stats"
)

// ErrNoData reports that every discovered file was skipped and the run
// produced no records at all.
var ErrNoData = errors.New("no file produced any records")

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Result is the outcome of a consolidation run.
type Result struct {
	Summary *model.RunSummary
	// Combined is the merged table before grouping reprojection.
	Combined *model.Table
	// Grouped holds the requested reprojections, keyed by grouping mode.
	Grouped map[string]*model.Table
	Stats   *stats.Stats
}

// Run executes the full consolidation pipeline. Only structural failures
// abort the run (and only when continue-on-error is off); schema-resolution
// failures skip the file with a warning.
func Run(ctx context.Context, log zerolog.Logger, cfg *config.Config) (*Result, error) {
	totalStart := time.Now()
	summary := &model.RunSummary{
		RunID:   uuid.New().String(),
		Vaccine: cfg.Vaccine,
	}

	// Phase 1: Discover
	discoverStart := time.Now()
	files, err := discover.Files(cfg.Dir, cfg.Pattern, cfg.Matching.Exclude)
	if err != nil {
		return nil, &PipelineError{Phase: "discover", Err: err}
	}
	if len(files) == 0 {
		return nil, &PipelineError{
			Phase: "discover",
			Err:   fmt.Errorf("no files matching %q under %s", cfg.Pattern, cfg.Dir),
		}
	}
	summary.FilesFound = len(files)
	summary.DurationDiscover = time.Since(discoverStart)
	log.Info().
		Int("files", len(files)).
		Str("vaccine", cfg.Vaccine).
		Str("run_id", summary.RunID).
		Msg("discovery complete")

	// Phase 2: Process files (in bounded batches) and merge each batch.
	processStart := time.Now()
	batchTables, err := processBatches(ctx, log, cfg, files, summary)
	if err != nil {
		return nil, &PipelineError{Phase: "process", Err: err}
	}
	summary.DurationProcess = time.Since(processStart)

	if len(batchTables) == 0 {
		summary.DurationTotal = time.Since(totalStart)
		return nil, &PipelineError{
			Phase: "process",
			Err:   fmt.Errorf("%w (%d of %d files skipped)", ErrNoData, summary.FilesSkipped, summary.FilesFound),
		}
	}

	// Phase 3: Merge batch results.
	mergeStart := time.Now()
	combined, mergeWarnings := merge.Tables(batchTables)
	summary.Warnings = append(summary.Warnings, mergeWarnings...)

	// Phase 4: Optional year/month filter. Filtering builds a new table;
	// the merged table itself is never mutated.
	if cfg.Year != "" || cfg.Month != "" {
		before := combined.RowCount()
		combined = merge.FilterYearMonth(combined, cfg.Year, cfg.Month)
		log.Info().
			Int("rows_before", before).
			Int("rows_after", combined.RowCount()).
			Str("year", cfg.Year).
			Str("month", cfg.Month).
			Msg("year/month filter applied")
	}

	// Phase 5: Grouping reprojections.
	grouped := make(map[string]*model.Table)
	if cfg.GroupBy == config.GroupBySite || cfg.GroupBy == config.GroupByBoth {
		grouped[config.GroupBySite] = merge.BySite(combined)
	}
	if cfg.GroupBy == config.GroupByResidence || cfg.GroupBy == config.GroupByBoth {
		grouped[config.GroupByResidence] = merge.ByResidence(combined)
	}
	summary.DurationMerge = time.Since(mergeStart)

	summary.RecordsTotal = combined.RowCount()
	summary.DurationTotal = time.Since(totalStart)

	log.Info().
		Int("files_processed", summary.FilesProcessed).
		Int("files_skipped", summary.FilesSkipped).
		Int("records", summary.RecordsTotal).
		Int("warnings", len(summary.Warnings)).
		Str("duration", summary.DurationTotal.String()).
		Msg("consolidation complete")

	return &Result{
		Summary:  summary,
		Combined: combined,
		Grouped:  grouped,
		Stats:    stats.Compute(combined),
	}, nil
}
