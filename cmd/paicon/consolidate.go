package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MitxelSantos/pai-consolidator/internal/config"
	"github.com/MitxelSantos/pai-consolidator/internal/consolidate"
	"github.com/MitxelSantos/pai-consolidator/internal/exitcode"
	"github.com/MitxelSantos/pai-consolidator/internal/export"
)

var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Consolidate registry workbooks into a single dataset",
	RunE:  runConsolidate,
}

func init() {
	f := consolidateCmd.Flags()
	f.StringVar(&cfg.Dir, "dir", "", "Root directory holding the registry folder tree (required)")
	f.StringVar(&cfg.OutDir, "out", ".", "Output directory")
	f.StringVar(&cfg.Vaccine, "vaccine", "fiebre amarilla", "Target vaccine name")
	f.StringVar(&cfg.Pattern, "pattern", "*.xls[mx]", "File glob pattern")
	f.StringVar(&cfg.Year, "year", "", "Keep only records of this year")
	f.StringVar(&cfg.Month, "month", "", "Keep only records of this month (01-12)")
	f.StringVar(&cfg.GroupBy, "group", config.GroupBySite, "Column grouping: vacunacion, residencia or ambos")
	f.StringVar(&cfg.Format, "format", config.FormatXLSX, "Output format: xlsx, csv or parquet")
	f.IntVar(&cfg.Workers, "workers", 1, "Concurrent file workers (1 = sequential)")
	f.BoolVar(&cfg.ContinueOnError, "continue-on-error", false, "Skip unreadable files instead of aborting")
	f.StringVar(&cfg.StatsFile, "stats", "", "Write an aggregate-statistics YAML report to this path")
	_ = consolidateCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(consolidateCmd)
}

func runConsolidate(cmd *cobra.Command, args []string) error {
	log, err := setup()
	if err != nil {
		log.Error().Err(err).Msg("config file load failed")
		os.Exit(exitcode.UsageError)
	}
	ctx := context.Background()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	res, err := consolidate.Run(ctx, log, &cfg)
	if err != nil {
		var pe *consolidate.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("consolidation failed")
			switch {
			case pe.Phase == "discover":
				os.Exit(exitcode.DiscoveryError)
			case errors.Is(pe.Err, consolidate.ErrNoData):
				os.Exit(exitcode.NoDataError)
			default:
				os.Exit(exitcode.ConsolidateError)
			}
		}
		log.Error().Err(err).Msg("consolidation failed")
		os.Exit(exitcode.ConsolidateError)
	}

	now := time.Now()
	for _, group := range []string{config.GroupBySite, config.GroupByResidence} {
		table, ok := res.Grouped[group]
		if !ok {
			continue
		}
		path := export.OutputPath(cfg.OutDir, cfg.Vaccine, group, cfg.Format, now)
		written, err := export.WriteTable(log, path, cfg.Format, table)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("output write failed")
			os.Exit(exitcode.WriteError)
		}
		fmt.Printf("Wrote %s (%d records)\n", written, table.RowCount())
	}

	if cfg.StatsFile != "" {
		if err := export.WriteStats(cfg.StatsFile, res.Stats); err != nil {
			log.Error().Err(err).Str("path", cfg.StatsFile).Msg("stats write failed")
			os.Exit(exitcode.WriteError)
		}
		fmt.Printf("Wrote %s\n", cfg.StatsFile)
	}

	printSummary(res)

	if res.Summary.FilesSkipped > 0 {
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}

func printSummary(res *consolidate.Result) {
	s := res.Summary
	fmt.Printf("\nConsolidation complete: %d/%d files, %d records (%.1fs)\n",
		s.FilesProcessed, s.FilesFound, s.RecordsTotal, s.DurationTotal.Seconds())
	if s.FilesSkipped > 0 {
		fmt.Printf("Skipped files: %d\n", s.FilesSkipped)
	}

	if res.Stats != nil && res.Stats.Vaccinated > 0 && len(res.Stats.ByDoseType) > 0 {
		fmt.Println("Dose types:")
		for _, name := range []string{"primera", "segunda", "refuerzo", "unica"} {
			count, ok := res.Stats.ByDoseType[name]
			if !ok {
				continue
			}
			fmt.Printf("  %-10s %6d (%.1f%%)\n",
				name, count, 100*float64(count)/float64(res.Stats.Vaccinated))
		}
	}

	visible, suppressed := s.VisibleWarnings()
	if len(visible) > 0 {
		fmt.Printf("Warnings (%d):\n", len(s.Warnings))
		for _, w := range visible {
			fmt.Printf("  - %s\n", w)
		}
		if suppressed > 0 {
			fmt.Printf("  ... and %d more\n", suppressed)
		}
	}
}
