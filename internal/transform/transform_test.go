package transform

import (
	"testing"

	"github.com/MitxelSantos/pai-consolidator/internal/config"
	"github.com/MitxelSantos/pai-consolidator/internal/model"
)

var testMeta = model.FileMetadata{Municipality: "IBAGUE", Year: "2025", Month: "04"}

func flatHeaderRows(dataRows ...[]string) [][]string {
	header := []string{
		"Consecutivo", "Fecha de atención", "Tipo de identificación", "Número de identificación",
		"Primer nombre", "Primer apellido", "Edad en años", "Sexo",
		"Departamento de residencia", "Municipio de residencia", "Comuna", "Área",
		"Dirección", "Fiebre amarilla",
	}
	return append([][]string{header}, dataRows...)
}

func flatResolved() model.ResolvedColumns {
	return model.ResolvedColumns{HeaderRow: 0, Indices: []int{13}, DoseIndex: 13, Strategy: "direct"}
}

func column(t *testing.T, table *model.Table, name string) []string {
	t.Helper()
	values := table.Column(name)
	if values == nil {
		t.Fatalf("column %q missing; have %v", name, table.Columns)
	}
	return values
}

func TestFile_DoseColumnDrivesVaccination(t *testing.T) {
	rows := flatHeaderRows(
		[]string{"1", "4/15/25", "CC", "123", "ANA", "PEREZ", "4", "F", "TOLIMA", "IBAGUE", "", "URBANA", "CALLE 1", "PRIMERA DOSIS"},
		[]string{"2", "4/16/25", "TI", "456", "LUIS", "GOMEZ", "30", "M", "TOLIMA", "IBAGUE", "", "RURAL", "VEREDA EL SALADO", "REFUERZO"},
		[]string{"3", "4/17/25", "CC", "789", "EVA", "RIOS", "62", "F", "TOLIMA", "IBAGUE", "", "URBANA", "CALLE 2", ""},
	)
	table, warnings, err := File(rows, model.HeaderStructure{HeaderRow: 0}, flatResolved(), testMeta, config.DefaultMatching())
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if table.RowCount() != 3 {
		t.Fatalf("got %d rows, want 3", table.RowCount())
	}

	vaccinated := column(t, table, "Vacunado")
	wantVacc := []string{"true", "true", "false"}
	for i, v := range vaccinated {
		if v != wantVacc[i] {
			t.Errorf("Vacunado[%d] = %q, want %q", i, v, wantVacc[i])
		}
	}

	first := column(t, table, "Es_Primera_Dosis")
	wantFirst := []string{"1", "0", "0"}
	for i, v := range first {
		if v != wantFirst[i] {
			t.Errorf("Es_Primera_Dosis[%d] = %q, want %q", i, v, wantFirst[i])
		}
	}

	booster := column(t, table, "Es_Refuerzo")
	if booster[1] != "1" {
		t.Errorf("Es_Refuerzo[1] = %q, want 1", booster[1])
	}
}

func TestFile_EndOfDataSentinelStopsRows(t *testing.T) {
	rows := flatHeaderRows(
		[]string{"1", "4/15/25", "CC", "123", "ANA", "PEREZ", "4", "F", "TOLIMA", "IBAGUE", "", "URBANA", "", "PRIMERA"},
		[]string{"", "FIN", "", "", "", "", "", "", "", "", "", "", "", ""},
		[]string{"", "", "", "", "", "", "", "", "", "", "", "", "", ""},
	)
	table, _, err := File(rows, model.HeaderStructure{HeaderRow: 0}, flatResolved(), testMeta, config.DefaultMatching())
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if table.RowCount() != 1 {
		t.Errorf("got %d rows, want 1 (sentinel and empty rows dropped)", table.RowCount())
	}
}

func TestFile_AgeGroupsAndArea(t *testing.T) {
	rows := flatHeaderRows(
		[]string{"1", "4/15/25", "CC", "1", "A", "B", "0", "F", "TOLIMA", "IBAGUE", "", "URBANA", "", "PRIMERA"},
		[]string{"2", "4/15/25", "CC", "2", "A", "B", "18", "M", "TOLIMA", "IBAGUE", "", "rural", "", "PRIMERA"},
		[]string{"3", "4/15/25", "CC", "3", "A", "B", "sin dato", "F", "TOLIMA", "IBAGUE", "", "", "", "PRIMERA"},
	)
	table, _, err := File(rows, model.HeaderStructure{HeaderRow: 0}, flatResolved(), testMeta, config.DefaultMatching())
	if err != nil {
		t.Fatalf("File: %v", err)
	}

	groups := column(t, table, "Grupo_Etario")
	wantGroups := []string{"<1 año", "11-18 años", "No especificado"}
	for i, g := range groups {
		if g != wantGroups[i] {
			t.Errorf("Grupo_Etario[%d] = %q, want %q", i, g, wantGroups[i])
		}
	}

	areas := column(t, table, "Tipo_Area")
	wantAreas := []string{"URBANA", "RURAL", "OTRA"}
	for i, a := range areas {
		if a != wantAreas[i] {
			t.Errorf("Tipo_Area[%d] = %q, want %q", i, a, wantAreas[i])
		}
	}
}

func TestFile_VillageFromAddressFallback(t *testing.T) {
	rows := flatHeaderRows(
		[]string{"1", "4/15/25", "CC", "1", "A", "B", "20", "F", "TOLIMA", "IBAGUE", "", "RURAL", "VEREDA LA PALMA, FINCA X", "PRIMERA"},
		[]string{"2", "4/15/25", "CC", "2", "A", "B", "21", "M", "TOLIMA", "IBAGUE", "", "URBANA", "CALLE 10 # 5-23", "PRIMERA"},
	)
	table, _, err := File(rows, model.HeaderStructure{HeaderRow: 0}, flatResolved(), testMeta, config.DefaultMatching())
	if err != nil {
		t.Fatalf("File: %v", err)
	}

	villages := column(t, table, "Vereda_Residencia")
	if villages[0] != "LA PALMA" {
		t.Errorf("Vereda_Residencia[0] = %q, want LA PALMA", villages[0])
	}
	if villages[1] != "" {
		t.Errorf("Vereda_Residencia[1] = %q, want empty", villages[1])
	}
}

func TestFile_LocalityColumnBeatsAddress(t *testing.T) {
	rows := flatHeaderRows(
		[]string{"1", "4/15/25", "CC", "1", "A", "B", "20", "F", "TOLIMA", "IBAGUE", "comuna 3", "URBANA", "VEREDA LA PALMA", "PRIMERA"},
	)
	table, _, err := File(rows, model.HeaderStructure{HeaderRow: 0}, flatResolved(), testMeta, config.DefaultMatching())
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	villages := column(t, table, "Vereda_Residencia")
	if villages[0] != "COMUNA 3" {
		t.Errorf("Vereda_Residencia[0] = %q, want COMUNA 3", villages[0])
	}
}

func TestFile_SiteMetadataColumns(t *testing.T) {
	rows := flatHeaderRows(
		[]string{"1", "4/15/25", "CC", "1", "A", "B", "20", "F", "TOLIMA", "IBAGUE", "", "URBANA", "", "PRIMERA"},
	)
	table, _, err := File(rows, model.HeaderStructure{HeaderRow: 0}, flatResolved(), testMeta, config.DefaultMatching())
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if got := column(t, table, "Municipio_Vacunacion")[0]; got != "IBAGUE" {
		t.Errorf("Municipio_Vacunacion = %q, want IBAGUE", got)
	}
	if got := column(t, table, "Año_Registro")[0]; got != "2025" {
		t.Errorf("Año_Registro = %q, want 2025", got)
	}
	if got := column(t, table, "Mes_Registro")[0]; got != "04" {
		t.Errorf("Mes_Registro = %q, want 04", got)
	}
	if got := column(t, table, "Fecha")[0]; got != "2025-04-15" {
		t.Errorf("Fecha = %q, want 2025-04-15", got)
	}
}

func TestFile_MissingColumnsWarnOnce(t *testing.T) {
	rows := [][]string{
		{"Consecutivo", "Fecha de atención", "Fiebre amarilla"},
		{"1", "4/15/25", "PRIMERA"},
	}
	rc := model.ResolvedColumns{HeaderRow: 0, Indices: []int{2}, DoseIndex: 2, Strategy: "direct"}
	table, warnings, err := File(rows, model.HeaderStructure{HeaderRow: 0}, rc, testMeta, config.DefaultMatching())
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
	if table.RowCount() != 1 {
		t.Errorf("got %d rows, want 1", table.RowCount())
	}
	// Missing base fields stay null rather than failing the file.
	if got := column(t, table, "Primer_Nombre")[0]; got != "" {
		t.Errorf("Primer_Nombre = %q, want empty", got)
	}
}

func TestFile_HeaderRowOutOfRange(t *testing.T) {
	rc := model.ResolvedColumns{HeaderRow: 9, Indices: []int{0}, DoseIndex: -1}
	if _, _, err := File([][]string{{"a"}}, model.HeaderStructure{}, rc, testMeta, config.DefaultMatching()); err == nil {
		t.Fatal("expected error for out-of-range header row")
	}
}

func TestFile_NoDoseColumnFallsBackToAnyValue(t *testing.T) {
	rows := flatHeaderRows(
		[]string{"1", "4/15/25", "CC", "1", "A", "B", "20", "F", "TOLIMA", "IBAGUE", "", "URBANA", "", "X"},
		[]string{"2", "4/16/25", "CC", "2", "A", "B", "21", "M", "TOLIMA", "IBAGUE", "", "URBANA", "", ""},
	)
	rc := model.ResolvedColumns{HeaderRow: 0, Indices: []int{13}, DoseIndex: -1, Strategy: "direct"}
	table, _, err := File(rows, model.HeaderStructure{HeaderRow: 0}, rc, testMeta, config.DefaultMatching())
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	vaccinated := column(t, table, "Vacunado")
	if vaccinated[0] != "true" || vaccinated[1] != "false" {
		t.Errorf("Vacunado = %v, want [true false]", vaccinated)
	}
}
