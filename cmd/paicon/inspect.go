package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MitxelSantos/pai-consolidator/internal/discover"
	"github.com/MitxelSantos/pai-consolidator/internal/exitcode"
	"github.com/MitxelSantos/pai-consolidator/internal/header"
	"github.com/MitxelSantos/pai-consolidator/internal/normalize"
	"github.com/MitxelSantos/pai-consolidator/internal/resolve"
	"github.com/MitxelSantos/pai-consolidator/internal/xlsxread"
)

var inspectFile string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Dump one workbook's header structure and column resolution",
	RunE:  runInspect,
}

func init() {
	f := inspectCmd.Flags()
	f.StringVar(&inspectFile, "file", "", "Path to a registry workbook (required)")
	f.StringVar(&cfg.Vaccine, "vaccine", "fiebre amarilla", "Target vaccine name")
	_ = inspectCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	log, err := setup()
	if err != nil {
		log.Error().Err(err).Msg("config file load failed")
		os.Exit(exitcode.UsageError)
	}

	sha, err := normalize.FileHash(inspectFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash file")
		os.Exit(exitcode.DiscoveryError)
	}

	wb, err := xlsxread.Open(inspectFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to open workbook")
		os.Exit(exitcode.DiscoveryError)
	}
	defer wb.Close()

	meta := discover.PathInfo(inspectFile, cfg.Matching.Months)

	fmt.Println("=== paicon inspect ===")
	fmt.Printf("File:         %s\n", inspectFile)
	fmt.Printf("SHA-256:      %s\n", sha)
	fmt.Printf("Sheets:       %s\n", strings.Join(wb.SheetNames(), ", "))
	fmt.Printf("Municipality: %s\n", meta.Municipality)
	fmt.Printf("Year/Month:   %s/%s\n\n", meta.Year, meta.Month)

	hs := header.Analyze(wb, cfg.Vaccine, cfg.Matching)
	if hs.FailureReason != "" {
		fmt.Printf("Header analysis failed: %s\n", hs.FailureReason)
		os.Exit(exitcode.NoDataError)
	}

	fmt.Printf("Sheet:        %s\n", hs.SheetName)
	fmt.Printf("Header row:   %d\n", hs.HeaderRow)
	fmt.Printf("Hierarchical: %v\n", hs.Hierarchical)
	if hs.VaccineSpan != nil {
		fmt.Printf("Vaccine span: [%d, %d)\n", hs.VaccineSpan.Start, hs.VaccineSpan.End)
	}
	for _, sc := range hs.Subcolumns {
		fmt.Printf("  subcolumn %d: %s\n", sc.Index, sc.Label)
	}

	rows, err := wb.ReadRows(hs.SheetName, 0)
	if err != nil {
		log.Error().Err(err).Msg("failed to read sheet")
		os.Exit(exitcode.DiscoveryError)
	}

	rc, err := resolve.Columns(resolve.Input{
		Rows:    rows,
		Header:  hs,
		Vaccine: cfg.Vaccine,
		M:       cfg.Matching,
	})
	if err != nil {
		if errors.Is(err, resolve.ErrColumnsNotFound) {
			fmt.Printf("\nResolution: no columns found for %q\n", cfg.Vaccine)
			os.Exit(exitcode.NoDataError)
		}
		log.Error().Err(err).Msg("column resolution failed")
		os.Exit(exitcode.ConsolidateError)
	}

	fmt.Printf("\nResolution strategy: %s\n", rc.Strategy)
	labels := rc.LabelsAt(rows[rc.HeaderRow])
	for i, col := range rc.Indices {
		marker := ""
		if col == rc.DoseIndex {
			marker = "  (dose column)"
		}
		fmt.Printf("  column %d: %q%s\n", col, labels[i], marker)
	}
	if !rc.HasDoseColumn() {
		fmt.Println("  no dose column identified; any non-null value counts as vaccinated")
	}
	return nil
}
