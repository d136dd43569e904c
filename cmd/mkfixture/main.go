// mkfixture generates a synthetic PAI registry workbook for testing.
// It can emit either a flat single-row header or the hierarchical two-row
// layout with a merged vaccine category, and writes the file under the
// conventional REGISTROS_<year>/<municipality>/ folder.
// Usage: go run ./cmd/mkfixture --out testdata --municipality IBAGUE --year 2025 --month ABRIL --rows 50 --hierarchical
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Registro Diario"

var flatHeader = []string{
	"Consecutivo", "Fecha de atención", "Tipo de identificación", "Número de identificación",
	"Primer nombre", "Primer apellido", "Edad en años", "Sexo",
	"Departamento de residencia", "Municipio de residencia", "Comuna/Localidad", "Área",
	"Dirección", "Fiebre amarilla",
}

var doseKinds = []string{"PRIMERA DOSIS", "SEGUNDA DOSIS", "REFUERZO", "UNICA"}
var areas = []string{"URBANA", "RURAL"}
var sexes = []string{"F", "M"}

func main() {
	out := flag.String("out", "testdata", "output root directory")
	municipality := flag.String("municipality", "IBAGUE", "municipality folder name")
	year := flag.String("year", "2025", "registry year")
	month := flag.String("month", "ABRIL", "month name for the file name")
	rows := flag.Int("rows", 50, "data rows to generate")
	hierarchical := flag.Bool("hierarchical", false, "emit a two-row header with a merged vaccine category")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	dir := filepath.Join(*out, "REGISTROS_"+*year, *municipality)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create directory: %v\n", err)
		os.Exit(1)
	}
	path := filepath.Join(dir, fmt.Sprintf("PAI_%s.xlsx", *month))

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		fmt.Fprintf(os.Stderr, "rename sheet: %v\n", err)
		os.Exit(1)
	}

	dataStart := writeHeader(f, *hierarchical)
	for i := 0; i < *rows; i++ {
		writeDataRow(f, dataStart+i, i+1, *year, rng, *hierarchical)
	}
	// End-of-data sentinel in the date column.
	setCell(f, 2, dataStart+*rows, "FIN")

	if err := f.SaveAs(path); err != nil {
		fmt.Fprintf(os.Stderr, "save workbook: %v\n", err)
		os.Exit(1)
	}
	layout := "flat"
	if *hierarchical {
		layout = "hierarchical"
	}
	fmt.Printf("Wrote %s (%d rows, %s header)\n", path, *rows, layout)
}

// writeHeader emits the header and returns the 1-based row where data starts.
func writeHeader(f *excelize.File, hierarchical bool) int {
	if !hierarchical {
		for c, label := range flatHeader {
			setCell(f, c+1, 1, label)
		}
		return 2
	}

	// Row 1 carries category labels with the vaccine block merged across
	// its subcolumns; row 2 carries the per-column labels.
	for c, label := range flatHeader[:13] {
		setCell(f, c+1, 2, label)
	}
	setCell(f, 14, 1, "Fiebre amarilla")
	start, _ := excelize.CoordinatesToCellName(14, 1)
	end, _ := excelize.CoordinatesToCellName(16, 1)
	if err := f.MergeCell(sheetName, start, end); err != nil {
		fmt.Fprintf(os.Stderr, "merge cells: %v\n", err)
		os.Exit(1)
	}
	setCell(f, 14, 2, "Dosis")
	setCell(f, 15, 2, "Lote")
	setCell(f, 16, 2, "Fecha de aplicación")
	return 3
}

func writeDataRow(f *excelize.File, row, seq int, year string, rng *rand.Rand, hierarchical bool) {
	vaccinated := rng.Intn(4) > 0

	setCell(f, 1, row, fmt.Sprintf("%d", seq))
	setCell(f, 2, row, fmt.Sprintf("%d/%d/%s", 1+rng.Intn(28), 1+rng.Intn(12), year[2:]))
	setCell(f, 3, row, "CC")
	setCell(f, 4, row, fmt.Sprintf("%d", 10000000+rng.Intn(90000000)))
	setCell(f, 5, row, fmt.Sprintf("NOMBRE%d", seq))
	setCell(f, 6, row, fmt.Sprintf("APELLIDO%d", seq))
	setCell(f, 7, row, fmt.Sprintf("%d", rng.Intn(80)))
	setCell(f, 8, row, sexes[rng.Intn(len(sexes))])
	setCell(f, 9, row, "TOLIMA")
	setCell(f, 10, row, "IBAGUE")
	setCell(f, 12, row, areas[rng.Intn(len(areas))])
	if rng.Intn(3) == 0 {
		setCell(f, 13, row, fmt.Sprintf("VEREDA LA PALMA %d", seq))
	} else {
		setCell(f, 13, row, fmt.Sprintf("CALLE %d # %d-%d", rng.Intn(90), rng.Intn(20), rng.Intn(50)))
	}

	if !vaccinated {
		return
	}
	setCell(f, 14, row, doseKinds[rng.Intn(len(doseKinds))])
	if hierarchical {
		setCell(f, 15, row, fmt.Sprintf("L%04d", rng.Intn(10000)))
		setCell(f, 16, row, fmt.Sprintf("%d/%d/%s", 1+rng.Intn(28), 1+rng.Intn(12), year[2:]))
	}
}

func setCell(f *excelize.File, col, row int, value string) {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cell reference: %v\n", err)
		os.Exit(1)
	}
	if err := f.SetCellValue(sheetName, ref, value); err != nil {
		fmt.Fprintf(os.Stderr, "set cell %s: %v\n", ref, err)
		os.Exit(1)
	}
}
