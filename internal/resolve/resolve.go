// Package resolve selects the concrete columns holding a vaccine's dose
// data from an inconsistently-headed sheet, escalating through an ordered
// list of fallback strategies until one succeeds.
package resolve

import (
	"errors"
	"strings"

	"github.com/MitxelSantos/pai-consolidator/internal/config"
	"github.com/MitxelSantos/pai-consolidator/internal/model"
	"github.com/MitxelSantos/pai-consolidator/internal/normalize"
)

// ErrColumnsNotFound reports that no strategy located the vaccine's columns.
// The file is skipped with a warning; the run continues.
var ErrColumnsNotFound = errors.New("vaccine columns not found")

const (
	// proximityWindow is how far an administration-term column may sit
	// from a vaccine-name column and still be claimed by it.
	proximityWindow = 3
	// contentWindow is the wider window used by the content-sniffing
	// strategy.
	contentWindow = 5
	// maxDistinctValues bounds content sniffing to low-cardinality
	// columns; free-text columns never qualify.
	maxDistinctValues = 50
	// relocationRows is how many candidate header rows relocation tries.
	relocationRows = 5
	// bruteScanSize is the side of the cell block scanned as a last resort.
	bruteScanSize = 20
	// doseSampleSize is how many non-null values dose identification reads.
	doseSampleSize = 30
)

// Input carries everything the strategies need: the raw sheet rows, the
// analyzer's header classification, and the matching vocabulary.
type Input struct {
	Rows    [][]string
	Header  model.HeaderStructure
	Vaccine string
	M       config.Matching
}

type strategy struct {
	name string
	run  func(in Input) (indices []int, headerRow int, ok bool)
}

// Columns resolves the vaccine's column set. Hierarchical header structures
// resolve directly from the analyzer's span; flat and broken layouts walk
// the fallback strategy chain. Resolution is deterministic: strategies run
// in a fixed order and scan columns left to right.
func Columns(in Input) (model.ResolvedColumns, error) {
	if hs := in.Header; hs.Hierarchical && hs.VaccineSpan != nil && len(hs.Subcolumns) > 0 {
		// The analyzer already scoped the span to this vaccine; every
		// subcolumn is kept, unlike the flat strategies below.
		indices := make([]int, len(hs.Subcolumns))
		for i, sc := range hs.Subcolumns {
			indices[i] = sc.Index
		}
		rc := model.ResolvedColumns{
			HeaderRow: hs.HeaderRow,
			Indices:   indices,
			DoseIndex: -1,
			Strategy:  "hierarchical",
		}
		rc.DoseIndex = IdentifyDoseColumn(in.Rows, rc, in.M.DoseKeywords)
		return rc, nil
	}

	strategies := []strategy{
		{name: "direct", run: func(in Input) ([]int, int, bool) {
			idx := directMatch(in, in.Header.HeaderRow)
			return idx, in.Header.HeaderRow, len(idx) > 0
		}},
		{name: "proximity", run: func(in Input) ([]int, int, bool) {
			idx := proximityMatch(in, in.Header.HeaderRow)
			return idx, in.Header.HeaderRow, len(idx) > 0
		}},
		{name: "content", run: func(in Input) ([]int, int, bool) {
			idx := contentMatch(in, in.Header.HeaderRow)
			return idx, in.Header.HeaderRow, len(idx) > 0
		}},
		{name: "relocation", run: relocationMatch},
		{name: "brute-scan", run: bruteScanMatch},
	}

	for _, s := range strategies {
		if indices, headerRow, ok := s.run(in); ok {
			return finish(in, indices, headerRow, s.name), nil
		}
	}
	return model.ResolvedColumns{DoseIndex: -1}, ErrColumnsNotFound
}

// finish applies the dose-labeled-subset priority to a flat strategy's
// result and identifies the single dose column. When several columns match
// a vaccine by name, the dose-labeled ones are the dose data and the rest
// are group labels or administrative notes.
func finish(in Input, indices []int, headerRow int, strategyName string) model.ResolvedColumns {
	row := headerRowCells(in.Rows, headerRow)

	var doseLabeled []int
	for _, c := range indices {
		if c < len(row) && strings.Contains(normalize.Fold(row[c]), "dosis") {
			doseLabeled = append(doseLabeled, c)
		}
	}
	if len(doseLabeled) > 0 {
		indices = doseLabeled
	}

	rc := model.ResolvedColumns{
		HeaderRow: headerRow,
		Indices:   indices,
		DoseIndex: -1,
		Strategy:  strategyName,
	}
	rc.DoseIndex = IdentifyDoseColumn(in.Rows, rc, in.M.DoseKeywords)
	return rc
}

// directMatch collects columns whose label mentions the vaccine or one of
// its configured aliases, excluding known false-positive labels.
func directMatch(in Input, headerRow int) []int {
	row := headerRowCells(in.Rows, headerRow)
	terms := in.M.AliasesFor(normalize.Fold(in.Vaccine))

	var indices []int
	for c, cell := range row {
		if !mentionsVaccine(cell, terms) {
			continue
		}
		if normalize.ContainsAnyFold(cell, in.M.FalsePositives) {
			continue
		}
		indices = append(indices, c)
	}
	return indices
}

// proximityMatch collects administration-term columns lying near a column
// that mentions the vaccine anywhere in the header row. The vaccine-name
// column itself is not collected; it usually only labels the group.
func proximityMatch(in Input, headerRow int) []int {
	row := headerRowCells(in.Rows, headerRow)
	terms := in.M.AliasesFor(normalize.Fold(in.Vaccine))

	var vaccineCols []int
	for c, cell := range row {
		if mentionsVaccine(cell, terms) {
			vaccineCols = append(vaccineCols, c)
		}
	}
	if len(vaccineCols) == 0 {
		return nil
	}

	var indices []int
	for c, cell := range row {
		if !normalize.ContainsAnyFold(cell, in.M.AdminTerms) {
			continue
		}
		for _, v := range vaccineCols {
			if abs(c-v) <= proximityWindow {
				indices = append(indices, c)
				break
			}
		}
	}
	return indices
}

// contentMatch sniffs column values: a low-cardinality column whose values
// mention a dose keyword counts when a vaccine mention exists within a
// five-column window of it.
func contentMatch(in Input, headerRow int) []int {
	row := headerRowCells(in.Rows, headerRow)
	terms := in.M.AliasesFor(normalize.Fold(in.Vaccine))

	var vaccineCols []int
	for c, cell := range row {
		if mentionsVaccine(cell, terms) {
			vaccineCols = append(vaccineCols, c)
		}
	}
	if len(vaccineCols) == 0 {
		return nil
	}

	width := sheetWidth(in.Rows)
	var indices []int
	for c := 0; c < width; c++ {
		near := false
		for _, v := range vaccineCols {
			if abs(c-v) <= contentWindow {
				near = true
				break
			}
		}
		if !near {
			continue
		}
		if columnHasDoseValues(in.Rows, headerRow+1, c, in.M.DoseKeywords, 0) {
			indices = append(indices, c)
		}
	}
	return indices
}

// relocationMatch retries the direct strategy with header rows 0 through 4.
func relocationMatch(in Input) ([]int, int, bool) {
	for hr := 0; hr < relocationRows && hr < len(in.Rows); hr++ {
		if indices := directMatch(in, hr); len(indices) > 0 {
			return indices, hr, true
		}
	}
	return nil, 0, false
}

// bruteScanMatch scans the leading 20×20 cell block for any vaccine mention
// and retries the direct strategy with the hit row (and the row below it)
// as header.
func bruteScanMatch(in Input) ([]int, int, bool) {
	terms := in.M.AliasesFor(normalize.Fold(in.Vaccine))
	for r := 0; r < bruteScanSize && r < len(in.Rows); r++ {
		row := in.Rows[r]
		for c := 0; c < bruteScanSize && c < len(row); c++ {
			if !mentionsVaccine(row[c], terms) {
				continue
			}
			if indices := directMatch(in, r); len(indices) > 0 {
				return indices, r, true
			}
			if r+1 < len(in.Rows) {
				if indices := directMatch(in, r+1); len(indices) > 0 {
					return indices, r + 1, true
				}
			}
		}
	}
	return nil, 0, false
}

// IdentifyDoseColumn picks the single dose column among the resolved ones:
// a "dosis" label wins, else the first column whose sampled values carry a
// dose keyword, else none (-1).
func IdentifyDoseColumn(rows [][]string, rc model.ResolvedColumns, doseKeywords []string) int {
	row := headerRowCells(rows, rc.HeaderRow)
	for _, c := range rc.Indices {
		if c < len(row) && strings.Contains(normalize.Fold(row[c]), "dosis") {
			return c
		}
	}
	for _, c := range rc.Indices {
		if columnHasDoseValues(rows, rc.HeaderRow+1, c, doseKeywords, doseSampleSize) {
			return c
		}
	}
	return -1
}

// columnHasDoseValues reports whether a column's non-null values mention a
// dose keyword. Cardinality at or above maxDistinctValues disqualifies the
// column. sampleLimit > 0 bounds how many values are inspected.
func columnHasDoseValues(rows [][]string, firstDataRow, col int, doseKeywords []string, sampleLimit int) bool {
	distinct := make(map[string]struct{})
	for r := firstDataRow; r < len(rows); r++ {
		if col >= len(rows[r]) {
			continue
		}
		if v := strings.TrimSpace(rows[r][col]); v != "" {
			distinct[v] = struct{}{}
			if len(distinct) >= maxDistinctValues {
				return false
			}
		}
	}

	sampled := 0
	for r := firstDataRow; r < len(rows); r++ {
		if col >= len(rows[r]) {
			continue
		}
		v := strings.TrimSpace(rows[r][col])
		if v == "" {
			continue
		}
		if normalize.ContainsAnyFold(v, doseKeywords) {
			return true
		}
		sampled++
		if sampleLimit > 0 && sampled >= sampleLimit {
			return false
		}
	}
	return false
}

// mentionsVaccine matches a header cell against the vaccine name and its
// aliases. Short aliases ("fa") match as whole tokens only, so they cannot
// fire inside unrelated words.
func mentionsVaccine(cell string, terms []string) bool {
	folded := normalize.Fold(cell)
	for _, term := range terms {
		if len(term) <= 3 {
			for _, token := range strings.FieldsFunc(folded, isNonAlnum) {
				if token == term {
					return true
				}
			}
			continue
		}
		if strings.Contains(folded, term) {
			return true
		}
	}
	return false
}

func isNonAlnum(r rune) bool {
	return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
}

func headerRowCells(rows [][]string, headerRow int) []string {
	if headerRow < 0 || headerRow >= len(rows) {
		return nil
	}
	return rows[headerRow]
}

func sheetWidth(rows [][]string) int {
	w := 0
	for _, row := range rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
