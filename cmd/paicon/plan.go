package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MitxelSantos/pai-consolidator/internal/config"
	"github.com/MitxelSantos/pai-consolidator/internal/discover"
	"github.com/MitxelSantos/pai-consolidator/internal/exitcode"
	"github.com/MitxelSantos/pai-consolidator/internal/header"
	"github.com/MitxelSantos/pai-consolidator/internal/xlsxread"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run discovery and header analysis (no writes)",
	RunE:  runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&cfg.Dir, "dir", "", "Root directory holding the registry folder tree (required)")
	f.StringVar(&cfg.Vaccine, "vaccine", "fiebre amarilla", "Target vaccine name")
	f.StringVar(&cfg.Pattern, "pattern", "*.xls[mx]", "File glob pattern")
	_ = planCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log, err := setup()
	if err != nil {
		log.Error().Err(err).Msg("config file load failed")
		os.Exit(exitcode.UsageError)
	}
	cfg.GroupBy = config.GroupBySite
	cfg.Format = config.FormatXLSX
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	files, err := discover.Files(cfg.Dir, cfg.Pattern, cfg.Matching.Exclude)
	if err != nil {
		log.Error().Err(err).Msg("discovery failed")
		os.Exit(exitcode.DiscoveryError)
	}

	fmt.Println("=== paicon plan ===")
	fmt.Printf("Root:    %s\n", cfg.Dir)
	fmt.Printf("Vaccine: %s\n", cfg.Vaccine)
	fmt.Printf("Files:   %d\n\n", len(files))

	hierarchical := 0
	for _, path := range files {
		meta := discover.PathInfo(path, cfg.Matching.Months)

		layout := "flat"
		wb, err := xlsxread.Open(path)
		if err != nil {
			layout = fmt.Sprintf("unreadable (%v)", err)
		} else {
			hs := header.Analyze(wb, cfg.Vaccine, cfg.Matching)
			switch {
			case hs.FailureReason != "":
				layout = fmt.Sprintf("unknown (%s)", hs.FailureReason)
			case hs.Hierarchical:
				layout = fmt.Sprintf("hierarchical, span [%d,%d), %d subcolumns",
					hs.VaccineSpan.Start, hs.VaccineSpan.End, len(hs.Subcolumns))
				hierarchical++
			case hs.VaccineSpan != nil:
				layout = fmt.Sprintf("flat, column %d (header row %d)",
					hs.VaccineSpan.Start, hs.HeaderRow)
			default:
				layout = "flat, vaccine not in header rows"
			}
			wb.Close()
		}

		fmt.Printf("%s\n", path)
		fmt.Printf("  municipality=%s year=%s month=%s\n", meta.Municipality, meta.Year, meta.Month)
		fmt.Printf("  layout: %s\n", layout)
	}

	fmt.Printf("\n%d of %d files have hierarchical headers\n", hierarchical, len(files))
	return nil
}
