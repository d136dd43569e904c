package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/MitxelSantos/pai-consolidator/internal/model"
)

// outputSheet names the single sheet of a consolidated workbook.
const outputSheet = "Consolidado"

// WriteXLSX writes the table as a single-sheet workbook using the
// streaming writer, so large consolidations never hold a styled workbook
// in memory.
func WriteXLSX(path string, t *model.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", outputSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(outputSheet)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}

	if err := writeStreamRow(sw, 1, t.Columns); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := writeStreamRow(sw, i+2, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush stream writer: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeStreamRow(sw *excelize.StreamWriter, rowNum int, cells []string) error {
	ref, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("cell reference row %d: %w", rowNum, err)
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := sw.SetRow(ref, values); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}
