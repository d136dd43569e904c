package model

import (
	"strconv"
	"time"
)

// AreaType classifies a residence area.
type AreaType string

const (
	AreaUrban AreaType = "URBANA"
	AreaRural AreaType = "RURAL"
	AreaOther AreaType = "OTRA"
)

// AgeGroup is one of the fixed age buckets used in PAI reporting.
type AgeGroup string

const (
	AgeUnderOne     AgeGroup = "<1 año"
	AgeOneToFive    AgeGroup = "1-5 años"
	AgeSixToTen     AgeGroup = "6-10 años"
	AgeElevenTo18   AgeGroup = "11-18 años"
	AgeNineteenTo60 AgeGroup = "19-60 años"
	AgeOver60       AgeGroup = ">60 años"
	AgeUnspecified  AgeGroup = "No especificado"
)

// AllAgeGroups lists the age buckets in reporting order.
var AllAgeGroups = []AgeGroup{
	AgeUnderOne, AgeOneToFive, AgeSixToTen, AgeElevenTo18,
	AgeNineteenTo60, AgeOver60, AgeUnspecified,
}

// DoseFlags are independent keyword-match booleans over the dose-kind text.
// They are not mutually exclusive: a dose-kind string matching more than one
// keyword sets more than one flag, which mirrors the source registries.
type DoseFlags struct {
	First   bool
	Second  bool
	Booster bool
	Single  bool
}

// CanonicalRecord is one normalized, flattened output row representing a
// single patient-vaccination event. Records are built once per source row
// during transformation and are immutable afterwards.
type CanonicalRecord struct {
	Sequence string

	IDType       string
	IDNumber     string
	FirstName    string
	FirstSurname string
	AgeYears     *int
	Sex          string
	AgeGroup     AgeGroup

	SiteMunicipality string
	RecordYear       string
	RecordMonth      string
	VisitDate        *time.Time

	ResidenceDepartment   string
	ResidenceMunicipality string
	ResidenceLocality     string
	AreaType              AreaType
	ResidenceVillage      string

	Vaccinated bool
	DoseKind   string
	Dose       DoseFlags
}

// CanonicalColumns is the fixed column order of the canonical portion of a
// per-file table. Resolved vaccine columns are appended after these.
var CanonicalColumns = []string{
	"Consecutivo",
	"Fecha",
	"Tipo_Identificacion",
	"Numero_Identificacion",
	"Primer_Nombre",
	"Primer_Apellido",
	"Edad_Anios",
	"Sexo",
	"Grupo_Etario",
	"Municipio_Vacunacion",
	"Año_Registro",
	"Mes_Registro",
	"Departamento_Residencia",
	"Municipio_Residencia",
	"Localidad_Residencia",
	"Tipo_Area",
	"Vereda_Residencia",
	"Vacunado",
	"Tipo_Dosis",
	"Es_Primera_Dosis",
	"Es_Segunda_Dosis",
	"Es_Refuerzo",
	"Es_Unica_Dosis",
}

// Values renders the record as table cells aligned with CanonicalColumns.
// Missing values render as empty cells; dose flags as 0/1 counters.
func (r *CanonicalRecord) Values() []string {
	return []string{
		r.Sequence,
		formatDate(r.VisitDate),
		r.IDType,
		r.IDNumber,
		r.FirstName,
		r.FirstSurname,
		formatAge(r.AgeYears),
		r.Sex,
		string(r.AgeGroup),
		r.SiteMunicipality,
		r.RecordYear,
		r.RecordMonth,
		r.ResidenceDepartment,
		r.ResidenceMunicipality,
		r.ResidenceLocality,
		string(r.AreaType),
		r.ResidenceVillage,
		formatBool(r.Vaccinated),
		r.DoseKind,
		formatFlag(r.Dose.First),
		formatFlag(r.Dose.Second),
		formatFlag(r.Dose.Booster),
		formatFlag(r.Dose.Single),
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatAge(a *int) string {
	if a == nil {
		return ""
	}
	return strconv.Itoa(*a)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func formatFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
