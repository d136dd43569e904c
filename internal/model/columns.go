package model

import "strings"

// ColumnKey identifies one source column header, which is either a flat
// single-cell label or a hierarchical (category, subcategory) pair read
// from a two-row header.
type ColumnKey struct {
	// Parent is the row-0 category label. Empty for flat headers.
	Parent string
	// Label is the column's own label: the flat header cell, or the
	// row-1 subcategory cell under Parent.
	Label string
	// Hierarchical marks keys built from a two-row header.
	Hierarchical bool
}

// Flat builds a ColumnKey for a single-row header cell.
func Flat(label string) ColumnKey {
	return ColumnKey{Label: label}
}

// Hier builds a ColumnKey for a two-row header cell.
func Hier(parent, label string) ColumnKey {
	return ColumnKey{Parent: parent, Label: label, Hierarchical: true}
}

// Text returns the full header text for substring matching: both levels
// joined for hierarchical keys, the bare label otherwise.
func (k ColumnKey) Text() string {
	if !k.Hierarchical || k.Parent == "" {
		return k.Label
	}
	if k.Label == "" {
		return k.Parent
	}
	return k.Parent + " " + k.Label
}

// Span is a half-open [Start, End) column-index range.
type Span struct {
	Start int
	End   int
}

// Contains reports whether col falls inside the span.
func (s Span) Contains(col int) bool {
	return col >= s.Start && col < s.End
}

// Subcolumn is one (index, subcategory label) pair inside a vaccine span.
type Subcolumn struct {
	Index int
	Label string
}

// HeaderStructure is the result of analyzing a sheet's leading rows.
// A zero-valued structure (no span, no subcolumns) means no hierarchical
// header information could be derived; callers fall back to flat-header
// column resolution.
type HeaderStructure struct {
	SheetName    string
	Hierarchical bool
	// HeaderRow is the row index holding per-column labels: 1 for a
	// two-row header, 0 for a flat one.
	HeaderRow int
	// VaccineSpan is nil iff the vaccine name was not found in the
	// scanned rows.
	VaccineSpan *Span
	Subcolumns  []Subcolumn
	// FailureReason records why analysis produced no structure, for the
	// file-level warning log. Empty on success.
	FailureReason string
}

// ResolvedColumns is the concrete set of columns selected as belonging to
// the target vaccine.
type ResolvedColumns struct {
	// HeaderRow is the row index whose cells name the resolved columns.
	// Fallback strategies may relocate it away from the analyzer's choice.
	HeaderRow int
	// Indices are the resolved column indices, in left-to-right order.
	Indices []int
	// DoseIndex is the single dose column chosen among Indices, or -1.
	DoseIndex int
	// Strategy names the resolution strategy that produced the result.
	Strategy string
}

// HasDoseColumn reports whether a dose column was identified.
func (rc ResolvedColumns) HasDoseColumn() bool {
	return rc.DoseIndex >= 0
}

// LabelsAt returns the header cells of the resolved columns from the given
// header row, padding with empty strings past the row end.
func (rc ResolvedColumns) LabelsAt(row []string) []string {
	labels := make([]string, len(rc.Indices))
	for i, col := range rc.Indices {
		if col < len(row) {
			labels[i] = strings.TrimSpace(row[col])
		}
	}
	return labels
}
