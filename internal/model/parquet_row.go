package model

// ParquetRecord mirrors the canonical record schema for columnar export.
// Only the canonical columns are carried; per-vaccine passthrough columns
// vary between runs and are omitted from the Parquet projection.
type ParquetRecord struct {
	Sequence string `parquet:"consecutivo,optional"`
	Date     string `parquet:"fecha,optional"`

	IDType       string `parquet:"tipo_identificacion,optional"`
	IDNumber     string `parquet:"numero_identificacion,optional"`
	FirstName    string `parquet:"primer_nombre,optional"`
	FirstSurname string `parquet:"primer_apellido,optional"`
	AgeYears     string `parquet:"edad_anios,optional"`
	Sex          string `parquet:"sexo,optional"`
	AgeGroup     string `parquet:"grupo_etario,optional"`

	SiteMunicipality string `parquet:"municipio_vacunacion,optional"`
	RecordYear       string `parquet:"anio_registro,optional"`
	RecordMonth      string `parquet:"mes_registro,optional"`

	ResidenceDepartment   string `parquet:"departamento_residencia,optional"`
	ResidenceMunicipality string `parquet:"municipio_residencia,optional"`
	ResidenceLocality     string `parquet:"localidad_residencia,optional"`
	AreaType              string `parquet:"tipo_area,optional"`
	ResidenceVillage      string `parquet:"vereda_residencia,optional"`

	Vaccinated string `parquet:"vacunado,optional"`
	DoseKind   string `parquet:"tipo_dosis,optional"`
	FirstDose  string `parquet:"es_primera_dosis,optional"`
	SecondDose string `parquet:"es_segunda_dosis,optional"`
	Booster    string `parquet:"es_refuerzo,optional"`
	SingleDose string `parquet:"es_unica_dosis,optional"`
}

// ToParquetRecord projects one table row aligned with CanonicalColumns into
// a ParquetRecord.
func ToParquetRecord(row []string) ParquetRecord {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return ParquetRecord{
		Sequence:              cell(0),
		Date:                  cell(1),
		IDType:                cell(2),
		IDNumber:              cell(3),
		FirstName:             cell(4),
		FirstSurname:          cell(5),
		AgeYears:              cell(6),
		Sex:                   cell(7),
		AgeGroup:              cell(8),
		SiteMunicipality:      cell(9),
		RecordYear:            cell(10),
		RecordMonth:           cell(11),
		ResidenceDepartment:   cell(12),
		ResidenceMunicipality: cell(13),
		ResidenceLocality:     cell(14),
		AreaType:              cell(15),
		ResidenceVillage:      cell(16),
		Vaccinated:            cell(17),
		DoseKind:              cell(18),
		FirstDose:             cell(19),
		SecondDose:            cell(20),
		Booster:               cell(21),
		SingleDose:            cell(22),
	}
}
