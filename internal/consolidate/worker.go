package consolidate

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/MitxelSantos/pai-consolidator/internal/config"
	"github.com/MitxelSantos/pai-consolidator/internal/discover"
	"github.com/MitxelSantos/pai-consolidator/internal/header"
	"github.com/MitxelSantos/pai-consolidator/internal/merge"
	"github.com/MitxelSantos/pai-consolidator/internal/model"
	"github.com/MitxelSantos/pai-consolidator/internal/resolve"
	"github.com/MitxelSantos/pai-consolidator/internal/transform"
	"github.com/MitxelSantos/pai-consolidator/internal/xlsxread"
)

// processBatches walks the file list in bounded batches, merging each
// batch's per-file tables before the next batch starts so a large run
// never holds every per-file table at once. The returned tables are one
// merged table per non-empty batch, in discovery order.
func processBatches(ctx context.Context, log zerolog.Logger, cfg *config.Config, files []string, summary *model.RunSummary) ([]*model.Table, error) {
	batchSize := cfg.Workers * 4
	if cfg.Workers <= 1 {
		// Sequential runs hold one per-file table at a time anyway.
		batchSize = len(files)
	}

	var batchTables []*model.Table
	for start := 0; start < len(files); start += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + batchSize
		if end > len(files) {
			end = len(files)
		}

		results, err := processBatch(ctx, log, cfg, files[start:end])
		if err != nil {
			return nil, err
		}

		var tables []*model.Table
		for _, res := range results {
			if res == nil {
				continue
			}
			summary.Warnings = append(summary.Warnings, res.Warnings...)
			if res.Skipped {
				summary.FilesSkipped++
				continue
			}
			summary.FilesProcessed++
			tables = append(tables, res.Table)
		}
		if len(tables) == 0 {
			continue
		}
		merged, warnings := merge.Tables(tables)
		summary.Warnings = append(summary.Warnings, warnings...)
		batchTables = append(batchTables, merged)
	}
	return batchTables, nil
}

// processBatch runs one batch, sequentially or with a worker pool. Results
// keep the batch's input order regardless of completion order.
func processBatch(ctx context.Context, log zerolog.Logger, cfg *config.Config, files []string) ([]*model.FileResult, error) {
	results := make([]*model.FileResult, len(files))
	errs := make([]error, len(files))

	if cfg.Workers <= 1 {
		for i, path := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i], errs[i] = processFile(log, cfg, path)
			if errs[i] != nil && !cfg.ContinueOnError {
				return nil, errs[i]
			}
		}
	} else {
		sem := make(chan struct{}, cfg.Workers)
		var wg sync.WaitGroup
		for i, path := range files {
			wg.Add(1)
			go func(i int, path string) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				if err := ctx.Err(); err != nil {
					errs[i] = err
					return
				}
				results[i], errs[i] = processFile(log, cfg, path)
			}(i, path)
		}
		wg.Wait()
	}

	// Structural failures either abort (first one, in input order) or
	// degrade to a skip with a warning.
	for i, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if !cfg.ContinueOnError {
			return nil, err
		}
		log.Warn().Err(err).Str("file", files[i]).Msg("file failed, continuing")
		results[i] = &model.FileResult{
			Path:       files[i],
			Skipped:    true,
			SkipReason: err.Error(),
			Warnings:   []string{fmt.Sprintf("%s: %s", filepath.Base(files[i]), err)},
		}
	}
	return results, nil
}

// processFile runs the full per-file chain: open, header analysis, column
// resolution, transformation. A structural failure (unreadable workbook or
// sheet) returns an error; a schema failure (columns not found) returns a
// skipped result with a warning.
func processFile(log zerolog.Logger, cfg *config.Config, path string) (*model.FileResult, error) {
	base := filepath.Base(path)
	meta := discover.PathInfo(path, cfg.Matching.Months)

	wb, err := xlsxread.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", base, err)
	}
	defer wb.Close()

	hs := header.Analyze(wb, cfg.Vaccine, cfg.Matching)
	if hs.SheetName == "" {
		return nil, fmt.Errorf("%s: %s", base, hs.FailureReason)
	}

	res := &model.FileResult{Path: path}
	if hs.FailureReason != "" {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("%s: header analysis degraded: %s", base, hs.FailureReason))
	}

	rows, err := wb.ReadRows(hs.SheetName, 0)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", base, err)
	}
	if len(rows) == 0 {
		res.Skipped = true
		res.SkipReason = "sheet is empty"
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s: sheet is empty, skipped", base))
		return res, nil
	}

	rc, err := resolve.Columns(resolve.Input{
		Rows:    rows,
		Header:  hs,
		Vaccine: cfg.Vaccine,
		M:       cfg.Matching,
	})
	if err != nil {
		if errors.Is(err, resolve.ErrColumnsNotFound) {
			res.Skipped = true
			res.SkipReason = err.Error()
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("%s: no columns found for %q, skipped", base, cfg.Vaccine))
			return res, nil
		}
		return nil, fmt.Errorf("resolve %s: %w", base, err)
	}

	table, warnings, err := transform.File(rows, hs, rc, meta, cfg.Matching)
	if err != nil {
		return nil, fmt.Errorf("transform %s: %w", base, err)
	}
	for _, w := range warnings {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %s", base, w))
	}
	res.Table = table
	res.Records = table.RowCount()

	log.Debug().
		Str("file", base).
		Str("municipality", meta.Municipality).
		Str("strategy", rc.Strategy).
		Int("records", res.Records).
		Msg("file processed")
	return res, nil
}
