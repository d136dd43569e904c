// Package export serializes consolidated tables and aggregate statistics
// to disk: xlsx (with a CSV fallback on write failure), plain CSV, Parquet,
// and a YAML statistics report.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/MitxelSantos/pai-consolidator/internal/config"
	"github.com/MitxelSantos/pai-consolidator/internal/model"
	"github.com/MitxelSantos/pai-consolidator/internal/stats"
)

// OutputPath builds the conventional output file name:
// Consolidado_<vaccine>_<group>_<YYYYMMDD>.<ext>.
func OutputPath(outDir, vaccine, group, format string, now time.Time) string {
	name := fmt.Sprintf("Consolidado_%s_%s_%s.%s",
		strings.ReplaceAll(vaccine, " ", "_"), group, now.Format("20060102"), format)
	return filepath.Join(outDir, name)
}

// WriteTable serializes the table in the requested format. An xlsx write
// failure falls back to CSV next to the intended path, so a run's results
// are never lost to a workbook serialization problem. Returns the path
// actually written.
func WriteTable(log zerolog.Logger, path string, format string, t *model.Table) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	switch format {
	case config.FormatCSV:
		return path, WriteCSV(path, t)
	case config.FormatParquet:
		return path, WriteParquet(path, t)
	default:
		if err := WriteXLSX(path, t); err != nil {
			fallback := strings.TrimSuffix(path, filepath.Ext(path)) + ".csv"
			log.Warn().Err(err).Str("fallback", fallback).Msg("xlsx write failed, falling back to csv")
			if csvErr := WriteCSV(fallback, t); csvErr != nil {
				return "", fmt.Errorf("xlsx write failed (%v); csv fallback: %w", err, csvErr)
			}
			return fallback, nil
		}
		return path, nil
	}
}

// WriteStats serializes the aggregate-statistics report as YAML.
func WriteStats(path string, s *stats.Stats) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}
	return nil
}
