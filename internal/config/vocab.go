package config

// Matching is the heuristic vocabulary driving sheet selection, column
// resolution and metadata extraction. All entries are compared in folded
// form (lowercase, diacritics stripped), so values here are written plain.
// Any field can be overridden from the YAML config file; empty fields keep
// their defaults.
type Matching struct {
	// SheetTarget is the preferred sheet name, matched case-insensitively.
	SheetTarget string `yaml:"sheet_target"`
	// SheetFragments select a sheet whose name contains all fragments when
	// no exact SheetTarget match exists.
	SheetFragments []string `yaml:"sheet_fragments"`

	// VaccineAliases maps a folded vaccine name to known abbreviations and
	// alternate spellings, e.g. "fa" and "antiamarilica" for yellow fever.
	VaccineAliases map[string][]string `yaml:"vaccine_aliases"`

	// FalsePositives exclude header labels that mention the vaccine only
	// incidentally (deceased notes, comment columns).
	FalsePositives []string `yaml:"false_positives"`

	// AdminTerms are administration-related header words used by the
	// proximity strategy: dose, lot, syringe, application date, biologic.
	AdminTerms []string `yaml:"admin_terms"`

	// DoseKeywords identify dose-kind values: first, second, booster, single.
	DoseKeywords []string `yaml:"dose_keywords"`

	// VillageMarkers introduce a village name inside a free-text address.
	VillageMarkers []string `yaml:"village_markers"`

	// Months maps path/filename tokens to two-digit month numbers.
	Months map[string]string `yaml:"months"`

	// Exclude lists filename substrings that disqualify a candidate file.
	Exclude []string `yaml:"exclude"`
}

// DefaultMatching returns the built-in vocabulary for Colombian PAI
// registry templates.
func DefaultMatching() Matching {
	return Matching{
		SheetTarget:    "Registro Diario",
		SheetFragments: []string{"registro", "diario"},
		VaccineAliases: map[string][]string{
			"fiebre amarilla": {"fa", "antiamarilica", "amarilica"},
		},
		FalsePositives: []string{"fallecid", "comentario", "observacion", "nota"},
		AdminTerms:     []string{"dosis", "lote", "jeringa", "fecha de aplicacion", "biologico"},
		DoseKeywords:   []string{"primera", "segunda", "refuerzo", "unica"},
		VillageMarkers: []string{"VEREDA", "VDA", "VER.", "CASERIO", "CORREGIMIENTO", "FINCA"},
		Months: map[string]string{
			"ENERO": "01", "ENE": "01", "JANUARY": "01", "JAN": "01",
			"FEBRERO": "02", "FEB": "02", "FEBRUARY": "02",
			"MARZO": "03", "MAR": "03", "MARCH": "03",
			"ABRIL": "04", "ABR": "04", "APRIL": "04", "APR": "04",
			"MAYO": "05", "MAY": "05",
			"JUNIO": "06", "JUN": "06", "JUNE": "06",
			"JULIO": "07", "JUL": "07", "JULY": "07",
			"AGOSTO": "08", "AGO": "08", "AUGUST": "08", "AUG": "08",
			"SEPTIEMBRE": "09", "SEP": "09", "SEPTEMBER": "09",
			"OCTUBRE": "10", "OCT": "10", "OCTOBER": "10",
			"NOVIEMBRE": "11", "NOV": "11", "NOVEMBER": "11",
			"DICIEMBRE": "12", "DIC": "12", "DECEMBER": "12", "DEC": "12",
		},
		Exclude: []string{"~$", "consolidado"},
	}
}

// AliasesFor returns the folded vaccine name plus its configured aliases.
// The caller folds the vaccine name before lookup.
func (m Matching) AliasesFor(foldedVaccine string) []string {
	terms := []string{foldedVaccine}
	return append(terms, m.VaccineAliases[foldedVaccine]...)
}

// merge copies non-empty override fields over m.
func (m *Matching) merge(o Matching) {
	if o.SheetTarget != "" {
		m.SheetTarget = o.SheetTarget
	}
	if len(o.SheetFragments) > 0 {
		m.SheetFragments = o.SheetFragments
	}
	if len(o.VaccineAliases) > 0 {
		if m.VaccineAliases == nil {
			m.VaccineAliases = make(map[string][]string)
		}
		for k, v := range o.VaccineAliases {
			m.VaccineAliases[k] = v
		}
	}
	if len(o.FalsePositives) > 0 {
		m.FalsePositives = o.FalsePositives
	}
	if len(o.AdminTerms) > 0 {
		m.AdminTerms = o.AdminTerms
	}
	if len(o.DoseKeywords) > 0 {
		m.DoseKeywords = o.DoseKeywords
	}
	if len(o.VillageMarkers) > 0 {
		m.VillageMarkers = o.VillageMarkers
	}
	if len(o.Months) > 0 {
		for k, v := range o.Months {
			m.Months[k] = v
		}
	}
	if len(o.Exclude) > 0 {
		m.Exclude = o.Exclude
	}
}
