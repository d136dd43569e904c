// Package header inspects a sheet's leading rows to classify the header
// layout (flat vs. two-row hierarchical) and locate the target vaccine's
// column span.
package header

import (
	"fmt"
	"strings"

	"github.com/MitxelSantos/pai-consolidator/internal/config"
	"github.com/MitxelSantos/pai-consolidator/internal/model"
	"github.com/MitxelSantos/pai-consolidator/internal/normalize"
	"github.com/MitxelSantos/pai-consolidator/internal/xlsxread"
)

// scanRows bounds how many leading rows the analyzer reads. Header layouts
// never extend past the first five rows of a registry template.
const scanRows = 5

// Analyze classifies the header layout of the workbook's registry sheet and
// locates the vaccine's column span. Read failures never propagate: the
// returned structure carries a FailureReason and the caller falls back to
// flat-header resolution.
func Analyze(wb *xlsxread.Workbook, vaccine string, m config.Matching) model.HeaderStructure {
	sheet := wb.PickSheet(m.SheetTarget, m.SheetFragments)
	if sheet == "" {
		return model.HeaderStructure{FailureReason: "workbook has no sheets"}
	}

	rows, err := wb.ReadRows(sheet, scanRows)
	if err != nil {
		return model.HeaderStructure{
			SheetName:     sheet,
			FailureReason: fmt.Sprintf("read leading rows: %v", err),
		}
	}
	if len(rows) == 0 {
		return model.HeaderStructure{SheetName: sheet, FailureReason: "sheet is empty"}
	}

	return classify(rows, sheet, vaccine)
}

func classify(rows [][]string, sheet, vaccine string) model.HeaderStructure {
	hs := model.HeaderStructure{SheetName: sheet}

	row0 := rows[0]
	start := -1
	for i, cell := range row0 {
		if normalize.ContainsFold(cell, vaccine) {
			start = i
			break
		}
	}

	if start < 0 {
		// Not a category in row 0; the span may still sit in a lower
		// header row of a relocated flat layout.
		for r := 1; r < len(rows); r++ {
			for c, cell := range rows[r] {
				if normalize.ContainsFold(cell, vaccine) {
					hs.HeaderRow = r
					hs.VaccineSpan = &model.Span{Start: c, End: c + 1}
					return hs
				}
			}
		}
		return hs
	}

	// The span extends until the next non-empty row-0 cell.
	end := len(row0)
	for j := start + 1; j < len(row0); j++ {
		if strings.TrimSpace(row0[j]) != "" {
			end = j
			break
		}
	}
	hs.VaccineSpan = &model.Span{Start: start, End: end}

	if len(rows) > 1 && end-start > 1 {
		for c, cell := range rows[1] {
			if !hs.VaccineSpan.Contains(c) {
				continue
			}
			label := strings.TrimSpace(cell)
			if label == "" {
				continue
			}
			hs.Subcolumns = append(hs.Subcolumns, model.Subcolumn{Index: c, Label: label})
		}
	}

	if len(hs.Subcolumns) > 0 {
		hs.Hierarchical = true
		hs.HeaderRow = 1
	}
	return hs
}

// Keys builds the column keys for the given header row. For a hierarchical
// layout the row above supplies category labels, carried forward across the
// empty cells left by merged category headers.
func Keys(rows [][]string, headerRow int, hierarchical bool) []model.ColumnKey {
	if headerRow < 0 || headerRow >= len(rows) {
		return nil
	}
	labelRow := rows[headerRow]

	if !hierarchical || headerRow == 0 {
		keys := make([]model.ColumnKey, len(labelRow))
		for i, cell := range labelRow {
			keys[i] = model.Flat(strings.TrimSpace(cell))
		}
		return keys
	}

	parentRow := rows[headerRow-1]
	width := len(labelRow)
	if len(parentRow) > width {
		width = len(parentRow)
	}

	keys := make([]model.ColumnKey, width)
	parent := ""
	for i := 0; i < width; i++ {
		if i < len(parentRow) && strings.TrimSpace(parentRow[i]) != "" {
			parent = strings.TrimSpace(parentRow[i])
		}
		label := ""
		if i < len(labelRow) {
			label = strings.TrimSpace(labelRow[i])
		}
		keys[i] = model.Hier(parent, label)
	}
	return keys
}
