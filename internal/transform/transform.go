// Package transform reshapes one file's raw sheet into the canonical
// output schema: residence fields, dose flags, age-group classification
// and vaccination-site metadata.
package transform

import (
	"fmt"
	"strings"

	"github.com/MitxelSantos/pai-consolidator/internal/config"
	"github.com/MitxelSantos/pai-consolidator/internal/header"
	"github.com/MitxelSantos/pai-consolidator/internal/model"
	"github.com/MitxelSantos/pai-consolidator/internal/normalize"
)

// endOfDataSentinel marks the end of data in the registry template.
const endOfDataSentinel = "fin"

// fieldSpec matches a canonical field against header labels: a column
// qualifies when its folded text contains every substring of any one
// synonym set. Unmatched fields stay null, never error.
type fieldSpec struct {
	name     string
	synonyms [][]string
}

var baseFields = []fieldSpec{
	{name: "sequence", synonyms: [][]string{{"consecutivo"}}},
	{name: "date", synonyms: [][]string{{"fecha", "atencion"}}},
	{name: "id_type", synonyms: [][]string{{"tipo", "identificacion"}}},
	{name: "id_number", synonyms: [][]string{{"numero", "identificacion"}}},
	{name: "first_name", synonyms: [][]string{{"primer", "nombre"}}},
	{name: "first_surname", synonyms: [][]string{{"primer", "apellido"}}},
	{name: "age_years", synonyms: [][]string{{"anos"}, {"edad"}}},
	{name: "sex", synonyms: [][]string{{"sexo"}}},
	{name: "residence_department", synonyms: [][]string{{"departamento", "residencia"}}},
	{name: "residence_municipality", synonyms: [][]string{{"municipio", "residencia"}}},
	{name: "locality", synonyms: [][]string{{"comuna"}, {"localidad"}}},
	{name: "area", synonyms: [][]string{{"area"}}},
	{name: "address", synonyms: [][]string{{"direccion"}}},
}

// File transforms a raw sheet into a per-file canonical table. Row-level
// data issues degrade to null fields; the returned warnings are file-level
// notes (missing expected columns). The caller prefixes them with the file
// name.
func File(rows [][]string, hs model.HeaderStructure, rc model.ResolvedColumns, meta model.FileMetadata, m config.Matching) (*model.Table, []string, error) {
	if rc.HeaderRow < 0 || rc.HeaderRow >= len(rows) {
		return nil, nil, fmt.Errorf("header row %d out of range (%d rows)", rc.HeaderRow, len(rows))
	}

	hierarchical := hs.Hierarchical && rc.HeaderRow == hs.HeaderRow
	keys := header.Keys(rows, rc.HeaderRow, hierarchical)
	labels := normalize.Labels(keys)

	fields, missing := matchBaseFields(keys)
	var warnings []string
	if len(missing) > 0 {
		warnings = append(warnings,
			fmt.Sprintf("missing expected columns: %s", strings.Join(missing, ", ")))
	}

	passthrough := make([]string, 0, len(rc.Indices))
	for _, c := range rc.Indices {
		if c < len(labels) {
			passthrough = append(passthrough, labels[c])
		} else {
			passthrough = append(passthrough, fmt.Sprintf("col_%d", c))
		}
	}

	columns := append(append([]string(nil), model.CanonicalColumns...), passthrough...)
	table := model.NewTable(columns)

	data := rows[rc.HeaderRow+1:]
	dateIdx, hasDate := fields["date"]
	localityIdx, hasLocality := fields["locality"]
	useLocality := hasLocality && columnHasValues(data, localityIdx)

	for _, row := range data {
		if hasDate {
			raw := cell(row, dateIdx)
			if raw == "" || normalize.Fold(raw) == endOfDataSentinel {
				continue
			}
		}
		rec := buildRecord(row, fields, rc, meta, m, useLocality)
		values := rec.Values()
		for _, c := range rc.Indices {
			values = append(values, cell(row, c))
		}
		table.AppendRow(values)
	}

	return table, warnings, nil
}

func buildRecord(row []string, fields map[string]int, rc model.ResolvedColumns, meta model.FileMetadata, m config.Matching, useLocality bool) model.CanonicalRecord {
	get := func(name string) string {
		idx, ok := fields[name]
		if !ok {
			return ""
		}
		return cell(row, idx)
	}

	rec := model.CanonicalRecord{
		Sequence:         get("sequence"),
		IDType:           get("id_type"),
		IDNumber:         get("id_number"),
		FirstName:        get("first_name"),
		FirstSurname:     get("first_surname"),
		Sex:              get("sex"),
		SiteMunicipality: normalize.Clean(meta.Municipality),
		RecordYear:       meta.Year,
		RecordMonth:      meta.Month,

		ResidenceDepartment:   normalize.Clean(get("residence_department")),
		ResidenceMunicipality: normalize.Clean(get("residence_municipality")),
		ResidenceLocality:     normalize.Clean(get("locality")),
	}

	if ageRaw := get("age_years"); ageRaw != "" {
		if age, ok := normalize.ParseAge(ageRaw); ok {
			rec.AgeYears = &age
		}
	}
	rec.AgeGroup = normalize.ClassifyAgeGroup(get("age_years"))

	if _, ok := fields["date"]; ok {
		rec.VisitDate = normalize.ParseVisitDate(get("date"))
	} else {
		rec.VisitDate = normalize.SynthesizeDate(meta.Year, meta.Month)
	}

	rec.AreaType = classifyArea(get("area"))

	if useLocality {
		rec.ResidenceVillage = normalize.Clean(get("locality"))
	} else if addr := get("address"); addr != "" {
		rec.ResidenceVillage = normalize.Clean(
			normalize.VillageFromAddress(addr, m.VillageMarkers))
	}

	if rc.HasDoseColumn() {
		raw := cell(row, rc.DoseIndex)
		if raw != "" && normalize.Fold(raw) != endOfDataSentinel {
			rec.Vaccinated = true
			rec.DoseKind = normalize.Clean(raw)
		}
	} else {
		for _, c := range rc.Indices {
			if cell(row, c) != "" {
				rec.Vaccinated = true
				break
			}
		}
	}
	rec.Dose = doseFlags(rec.DoseKind, m.DoseKeywords)

	return rec
}

// doseFlags keyword-matches the cleaned dose-kind text. The flags are
// deliberately not mutually exclusive: a dose-kind string matching two
// keywords sets two flags, mirroring the source registries.
func doseFlags(doseKind string, keywords []string) model.DoseFlags {
	folded := normalize.Fold(doseKind)
	var f model.DoseFlags
	for _, kw := range keywords {
		if !strings.Contains(folded, normalize.Fold(kw)) {
			continue
		}
		switch normalize.Fold(kw) {
		case "primera":
			f.First = true
		case "segunda":
			f.Second = true
		case "refuerzo":
			f.Booster = true
		case "unica":
			f.Single = true
		}
	}
	return f
}

func classifyArea(area string) model.AreaType {
	folded := normalize.Fold(area)
	switch {
	case strings.Contains(folded, "urbana"):
		return model.AreaUrban
	case strings.Contains(folded, "rural"):
		return model.AreaRural
	default:
		return model.AreaOther
	}
}

// matchBaseFields maps canonical field names to column indices by synonym
// matching over the full header text, left to right, first match wins.
func matchBaseFields(keys []model.ColumnKey) (map[string]int, []string) {
	fields := make(map[string]int, len(baseFields))
	var missing []string
	for _, spec := range baseFields {
		idx := -1
		for c, k := range keys {
			if matchesSynonyms(normalize.Fold(k.Text()), spec.synonyms) {
				idx = c
				break
			}
		}
		if idx < 0 {
			missing = append(missing, spec.name)
			continue
		}
		fields[spec.name] = idx
	}
	return fields, missing
}

func matchesSynonyms(folded string, synonyms [][]string) bool {
	for _, set := range synonyms {
		all := true
		for _, substr := range set {
			if !strings.Contains(folded, substr) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

func columnHasValues(data [][]string, col int) bool {
	for _, row := range data {
		if cell(row, col) != "" {
			return true
		}
	}
	return false
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
