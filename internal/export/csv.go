package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/MitxelSantos/pai-consolidator/internal/model"
)

// utf8BOM helps Excel recognize UTF-8 when opening the delimited fallback.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the table as a UTF-8 CSV file with a BOM prefix.
func WriteCSV(path string, t *model.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		if len(row) < len(t.Columns) {
			padded := make([]string, len(t.Columns))
			copy(padded, row)
			row = padded
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	return w.Error()
}
