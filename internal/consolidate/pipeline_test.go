package consolidate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/MitxelSantos/pai-consolidator/internal/config"
)

// writeFixture builds a registry workbook from raw cell rows.
func writeFixture(t *testing.T, path string, rows [][]string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", "Registro Diario"); err != nil {
		t.Fatal(err)
	}
	for r, row := range rows {
		for c, cell := range row {
			if cell == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue("Registro Diario", ref, cell); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save fixture %s: %v", path, err)
	}
}

var flatFixtureRows = [][]string{
	{"Consecutivo", "Fecha de atención", "Tipo de identificación", "Número de identificación",
		"Primer nombre", "Primer apellido", "Edad en años", "Sexo",
		"Departamento de residencia", "Municipio de residencia", "Comuna", "Área",
		"Dirección", "Fiebre amarilla"},
	{"1", "4/15/25", "CC", "123", "ANA", "PEREZ", "4", "F", "TOLIMA", "IBAGUE", "", "URBANA", "CALLE 1", "PRIMERA DOSIS"},
	{"2", "4/16/25", "TI", "456", "LUIS", "GOMEZ", "30", "M", "TOLIMA", "IBAGUE", "", "RURAL", "VEREDA EL SALADO", "REFUERZO"},
	{"3", "4/17/25", "CC", "789", "EVA", "RIOS", "62", "F", "TOLIMA", "IBAGUE", "", "URBANA", "CALLE 2", ""},
	{"", "FIN"},
}

var hierFixtureRows = [][]string{
	{"", "", "Fiebre amarilla", "", "Sarampión"},
	{"Consecutivo", "Fecha de atención", "Dosis", "Lote", "Dosis"},
	{"1", "5/10/25", "PRIMERA", "L-77", ""},
}

var noVaccineFixtureRows = [][]string{
	{"Consecutivo", "Fecha de atención", "Sarampión"},
	{"1", "6/1/25", "PRIMERA"},
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		Dir:      dir,
		Vaccine:  "fiebre amarilla",
		Pattern:  "*.xlsx",
		GroupBy:  config.GroupBySite,
		Format:   config.FormatXLSX,
		Workers:  1,
		Matching: config.DefaultMatching(),
	}
}

func TestRun_EndToEnd(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, filepath.Join(root, "REGISTROS_2025", "IBAGUE", "PAI_ABRIL.xlsx"), flatFixtureRows)
	writeFixture(t, filepath.Join(root, "REGISTROS_2025", "ESPINAL", "PAI_MAYO.xlsx"), hierFixtureRows)
	writeFixture(t, filepath.Join(root, "REGISTROS_2025", "HONDA", "PAI_JUNIO.xlsx"), noVaccineFixtureRows)

	res, err := Run(context.Background(), zerolog.Nop(), testConfig(root))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	s := res.Summary
	if s.FilesFound != 3 {
		t.Errorf("FilesFound = %d, want 3", s.FilesFound)
	}
	if s.FilesProcessed != 2 {
		t.Errorf("FilesProcessed = %d, want 2", s.FilesProcessed)
	}
	// The workbook without the vaccine's columns skips, never aborts.
	if s.FilesSkipped != 1 {
		t.Errorf("FilesSkipped = %d, want 1", s.FilesSkipped)
	}
	if s.RecordsTotal != 4 {
		t.Errorf("RecordsTotal = %d, want 4", s.RecordsTotal)
	}

	skipWarned := false
	for _, w := range s.Warnings {
		if strings.Contains(w, "PAI_JUNIO.xlsx") {
			skipWarned = true
		}
	}
	if !skipWarned {
		t.Errorf("no skip warning for PAI_JUNIO.xlsx in %v", s.Warnings)
	}

	if res.Stats.Vaccinated != 3 {
		t.Errorf("Vaccinated = %d, want 3", res.Stats.Vaccinated)
	}
	if res.Stats.ByDoseType["primera"] != 2 || res.Stats.ByDoseType["refuerzo"] != 1 {
		t.Errorf("ByDoseType = %v", res.Stats.ByDoseType)
	}
	if res.Stats.BySite["IBAGUE"] != 3 || res.Stats.BySite["ESPINAL"] != 1 {
		t.Errorf("BySite = %v", res.Stats.BySite)
	}

	site, ok := res.Grouped[config.GroupBySite]
	if !ok {
		t.Fatal("missing by-site projection")
	}
	if site.Columns[0] != "Municipio_Vacunacion" {
		t.Errorf("by-site lead column = %q", site.Columns[0])
	}
	if site.RowCount() != 4 {
		t.Errorf("by-site rows = %d, want 4", site.RowCount())
	}
}

func TestRun_WorkerPoolMatchesSequential(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, filepath.Join(root, "REGISTROS_2025", "IBAGUE", "PAI_ABRIL.xlsx"), flatFixtureRows)
	writeFixture(t, filepath.Join(root, "REGISTROS_2025", "ESPINAL", "PAI_MAYO.xlsx"), hierFixtureRows)

	seq, err := Run(context.Background(), zerolog.Nop(), testConfig(root))
	if err != nil {
		t.Fatalf("sequential Run: %v", err)
	}

	cfg := testConfig(root)
	cfg.Workers = 4
	par, err := Run(context.Background(), zerolog.Nop(), cfg)
	if err != nil {
		t.Fatalf("parallel Run: %v", err)
	}

	if seq.Summary.RecordsTotal != par.Summary.RecordsTotal {
		t.Errorf("records differ: sequential %d, parallel %d",
			seq.Summary.RecordsTotal, par.Summary.RecordsTotal)
	}
	if seq.Summary.FilesProcessed != par.Summary.FilesProcessed {
		t.Errorf("processed differ: sequential %d, parallel %d",
			seq.Summary.FilesProcessed, par.Summary.FilesProcessed)
	}
	if len(seq.Combined.Columns) != len(par.Combined.Columns) {
		t.Errorf("column sets differ: %v vs %v", seq.Combined.Columns, par.Combined.Columns)
	}
}

func TestRun_AllFilesSkippedIsNoData(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, filepath.Join(root, "REGISTROS_2025", "HONDA", "PAI_JUNIO.xlsx"), noVaccineFixtureRows)

	_, err := Run(context.Background(), zerolog.Nop(), testConfig(root))
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
	var pe *PipelineError
	if !errors.As(err, &pe) || pe.Phase != "process" {
		t.Errorf("expected a process-phase pipeline error, got %v", err)
	}
}

func TestRun_NoFilesIsDiscoveryError(t *testing.T) {
	_, err := Run(context.Background(), zerolog.Nop(), testConfig(t.TempDir()))
	var pe *PipelineError
	if !errors.As(err, &pe) || pe.Phase != "discover" {
		t.Fatalf("expected a discover-phase pipeline error, got %v", err)
	}
}

func TestRun_YearMonthFilter(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, filepath.Join(root, "REGISTROS_2025", "IBAGUE", "PAI_ABRIL.xlsx"), flatFixtureRows)
	writeFixture(t, filepath.Join(root, "REGISTROS_2024", "IBAGUE", "PAI_ABRIL.xlsx"), flatFixtureRows)

	cfg := testConfig(root)
	cfg.Year = "2025"
	res, err := Run(context.Background(), zerolog.Nop(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Summary.RecordsTotal != 3 {
		t.Errorf("RecordsTotal = %d, want 3 (2024 rows filtered out)", res.Summary.RecordsTotal)
	}
}

func TestRun_ContinueOnErrorSkipsUnreadable(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, filepath.Join(root, "REGISTROS_2025", "IBAGUE", "PAI_ABRIL.xlsx"), flatFixtureRows)
	broken := filepath.Join(root, "REGISTROS_2025", "HONDA", "PAI_MAYO.xlsx")
	if err := os.MkdirAll(filepath.Dir(broken), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(broken, []byte("not a workbook"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Default mode aborts on the structural failure.
	if _, err := Run(context.Background(), zerolog.Nop(), testConfig(root)); err == nil {
		t.Fatal("expected an error for the unreadable workbook")
	}

	cfg := testConfig(root)
	cfg.ContinueOnError = true
	res, err := Run(context.Background(), zerolog.Nop(), cfg)
	if err != nil {
		t.Fatalf("Run with continue-on-error: %v", err)
	}
	if res.Summary.FilesProcessed != 1 || res.Summary.FilesSkipped != 1 {
		t.Errorf("processed/skipped = %d/%d, want 1/1",
			res.Summary.FilesProcessed, res.Summary.FilesSkipped)
	}
	if res.Summary.RecordsTotal != 3 {
		t.Errorf("RecordsTotal = %d, want 3", res.Summary.RecordsTotal)
	}
}
