package xlsxread

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/MitxelSantos/pai-consolidator/internal/normalize"
)

// Workbook wraps an excelize file for header analysis and row streaming.
type Workbook struct {
	file *excelize.File
}

// Open opens an xlsx/xlsm workbook.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Workbook{file: f}, nil
}

// SheetNames returns the workbook's sheet names in file order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// PickSheet chooses the sheet to read: an exact case-insensitive match of
// target first, then the first sheet whose name contains every fragment,
// then the first sheet in the file. Returns "" for a sheetless workbook.
func (w *Workbook) PickSheet(target string, fragments []string) string {
	sheets := w.SheetNames()
	if len(sheets) == 0 {
		return ""
	}

	for _, name := range sheets {
		if strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(target)) {
			return name
		}
	}

	for _, name := range sheets {
		folded := normalize.Fold(name)
		all := true
		for _, frag := range fragments {
			if !strings.Contains(folded, normalize.Fold(frag)) {
				all = false
				break
			}
		}
		if all && len(fragments) > 0 {
			return name
		}
	}

	return sheets[0]
}

// ReadRows reads up to limit rows from the named sheet using the streaming
// row iterator, so header analysis never loads a full sheet. limit <= 0
// reads every row.
func (w *Workbook) ReadRows(sheet string, limit int) ([][]string, error) {
	iter, err := w.file.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	defer iter.Close()

	var rows [][]string
	for iter.Next() {
		if limit > 0 && len(rows) >= limit {
			break
		}
		cells, err := iter.Columns()
		if err != nil {
			return nil, fmt.Errorf("read sheet %q row %d: %w", sheet, len(rows), err)
		}
		rows = append(rows, cells)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iterate sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.file.Close()
}
