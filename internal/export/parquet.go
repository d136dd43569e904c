package export

import (
	"fmt"
	"os"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/MitxelSantos/pai-consolidator/internal/model"
)

// WriteParquet writes the canonical projection of the table as Parquet.
// Per-vaccine passthrough columns are not part of the fixed Parquet schema
// and are omitted; xlsx and csv outputs carry them in full.
func WriteParquet(path string, t *model.Table) error {
	projected := t.Project(model.CanonicalColumns)

	records := make([]model.ParquetRecord, 0, len(projected.Rows))
	for _, row := range projected.Rows {
		records = append(records, model.ToParquetRecord(row))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet: %w", err)
	}
	defer f.Close()

	w := goparquet.NewGenericWriter[model.ParquetRecord](f)
	if len(records) > 0 {
		if _, err := w.Write(records); err != nil {
			return fmt.Errorf("write parquet rows: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}
