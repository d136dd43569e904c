// Package stats derives read-only aggregate statistics from a merged table.
package stats

import (
	"github.com/MitxelSantos/pai-consolidator/internal/model"
)

// Stats summarizes a consolidated table. Computed once over the merged
// result, never per file.
type Stats struct {
	TotalRecords int `yaml:"total_records"`
	Vaccinated   int `yaml:"vaccinated"`

	ByYear       map[string]int `yaml:"by_year,omitempty"`
	ByMonth      map[string]int `yaml:"by_month,omitempty"`
	ByAgeGroup   map[string]int `yaml:"by_age_group,omitempty"`
	BySite       map[string]int `yaml:"by_site,omitempty"`
	ByDepartment map[string]int `yaml:"by_department,omitempty"`
	ByDoseType   map[string]int `yaml:"by_dose_type,omitempty"`
}

// doseFlagColumns maps flag columns to their reporting names.
var doseFlagColumns = []struct {
	column string
	name   string
}{
	{"Es_Primera_Dosis", "primera"},
	{"Es_Segunda_Dosis", "segunda"},
	{"Es_Refuerzo", "refuerzo"},
	{"Es_Unica_Dosis", "unica"},
}

// Compute tallies the consolidated table. Absent columns simply contribute
// nothing; the result is always usable.
func Compute(t *model.Table) *Stats {
	s := &Stats{
		TotalRecords: t.RowCount(),
		ByYear:       countBy(t, "Año_Registro"),
		ByMonth:      countBy(t, "Mes_Registro"),
		ByAgeGroup:   countBy(t, "Grupo_Etario"),
		BySite:       countBy(t, "Municipio_Vacunacion"),
		ByDepartment: countBy(t, "Departamento_Residencia"),
	}

	for _, v := range t.Column("Vacunado") {
		if v == "true" {
			s.Vaccinated++
		}
	}

	byDose := make(map[string]int)
	for _, fc := range doseFlagColumns {
		for _, v := range t.Column(fc.column) {
			if v == "1" {
				byDose[fc.name]++
			}
		}
	}
	if len(byDose) > 0 {
		s.ByDoseType = byDose
	}
	return s
}

func countBy(t *model.Table, column string) map[string]int {
	values := t.Column(column)
	if values == nil {
		return nil
	}
	counts := make(map[string]int)
	for _, v := range values {
		if v == "" {
			continue
		}
		counts[v]++
	}
	if len(counts) == 0 {
		return nil
	}
	return counts
}
