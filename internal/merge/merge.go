// Package merge combines many per-file tables into consolidated outputs,
// tolerating the schema drift that heuristic column resolution produces.
package merge

import (
	"fmt"
	"strings"

	"github.com/MitxelSantos/pai-consolidator/internal/model"
)

// Tables concatenates per-file tables in processing order, restricting the
// result to the intersection of the column sets. Column order follows the
// first table; row order within each table is preserved. Dropped columns
// are surfaced as warnings rather than silently discarded.
func Tables(tables []*model.Table) (*model.Table, []string) {
	if len(tables) == 0 {
		return model.NewTable(nil), nil
	}

	shared := intersection(tables)

	var warnings []string
	dropped := droppedColumns(tables, shared)
	if len(dropped) > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"columns dropped during merge (absent in some files): %s",
			strings.Join(dropped, ", ")))
	}

	out := model.NewTable(shared)
	for _, t := range tables {
		projected := t.Project(shared)
		out.Rows = append(out.Rows, projected.Rows...)
	}
	return out, warnings
}

// intersection returns the columns present in every table, in the first
// table's order.
func intersection(tables []*model.Table) []string {
	var shared []string
	for _, col := range tables[0].Columns {
		inAll := true
		for _, t := range tables[1:] {
			if t.ColumnIndex(col) < 0 {
				inAll = false
				break
			}
		}
		if inAll {
			shared = append(shared, col)
		}
	}
	return shared
}

func droppedColumns(tables []*model.Table, shared []string) []string {
	keep := make(map[string]struct{}, len(shared))
	for _, c := range shared {
		keep[c] = struct{}{}
	}
	seen := make(map[string]struct{})
	var dropped []string
	for _, t := range tables {
		for _, col := range t.Columns {
			if _, ok := keep[col]; ok {
				continue
			}
			if _, dup := seen[col]; dup {
				continue
			}
			seen[col] = struct{}{}
			dropped = append(dropped, col)
		}
	}
	return dropped
}

// residencePrefixes select the columns pulled to the front of the
// by-residence projection.
var residenceMarkers = []string{"Residencia", "Departamento_", "Municipio_"}

// siteLeadColumns lead the by-site projection.
var siteLeadColumns = []string{"Municipio_Vacunacion", "Año_Registro", "Mes_Registro", "Fecha"}

// ByResidence reorders columns to put residence-related columns first.
// No column is dropped; a new table is returned.
func ByResidence(t *model.Table) *model.Table {
	var lead, rest []string
	for _, col := range t.Columns {
		if containsAny(col, residenceMarkers) {
			lead = append(lead, col)
		} else {
			rest = append(rest, col)
		}
	}
	return t.Project(append(lead, rest...))
}

// BySite reorders columns to put vaccination-site and date metadata first.
// No column is dropped; a new table is returned.
func BySite(t *model.Table) *model.Table {
	present := make(map[string]struct{})
	var lead []string
	for _, col := range siteLeadColumns {
		if t.ColumnIndex(col) >= 0 {
			lead = append(lead, col)
			present[col] = struct{}{}
		}
	}
	var rest []string
	for _, col := range t.Columns {
		if _, ok := present[col]; !ok {
			rest = append(rest, col)
		}
	}
	return t.Project(append(lead, rest...))
}

// FilterYearMonth returns a new table keeping only rows whose record year
// and month match the non-empty filter values. The input is not mutated.
func FilterYearMonth(t *model.Table, year, month string) *model.Table {
	if year == "" && month == "" {
		return t.Project(t.Columns)
	}

	yearIdx := t.ColumnIndex("Año_Registro")
	monthIdx := t.ColumnIndex("Mes_Registro")

	out := model.NewTable(t.Columns)
	for _, row := range t.Rows {
		if year != "" && yearIdx >= 0 && cellAt(row, yearIdx) != year {
			continue
		}
		if month != "" && monthIdx >= 0 && cellAt(row, monthIdx) != month {
			continue
		}
		out.AppendRow(append([]string(nil), row...))
	}
	return out
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
