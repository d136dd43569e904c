package resolve

import (
	"errors"
	"reflect"
	"testing"

	"github.com/MitxelSantos/pai-consolidator/internal/config"
	"github.com/MitxelSantos/pai-consolidator/internal/model"
)

func input(rows [][]string, hs model.HeaderStructure) Input {
	return Input{
		Rows:    rows,
		Header:  hs,
		Vaccine: "fiebre amarilla",
		M:       config.DefaultMatching(),
	}
}

func TestColumns_HierarchicalShortCircuit(t *testing.T) {
	rows := [][]string{
		{"", "", "", "", "", "Fiebre amarilla"},
		{"Consecutivo", "Fecha", "Nombre", "Edad", "Sexo", "Dosis", "Lote", "Fecha de aplicación"},
		{"1", "1/2/25", "ANA", "4", "F", "PRIMERA", "L1", "1/2/25"},
	}
	hs := model.HeaderStructure{
		SheetName:    "Registro Diario",
		Hierarchical: true,
		HeaderRow:    1,
		VaccineSpan:  &model.Span{Start: 5, End: 8},
		Subcolumns: []model.Subcolumn{
			{Index: 5, Label: "Dosis"},
			{Index: 6, Label: "Lote"},
			{Index: 7, Label: "Fecha de aplicación"},
		},
	}

	rc, err := Columns(input(rows, hs))
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	if rc.Strategy != "hierarchical" {
		t.Errorf("Strategy = %q, want hierarchical", rc.Strategy)
	}
	// Every subcolumn of the span is kept; the dose column is singled out
	// among them by its label.
	if !reflect.DeepEqual(rc.Indices, []int{5, 6, 7}) {
		t.Errorf("Indices = %v, want [5 6 7]", rc.Indices)
	}
	if rc.DoseIndex != 5 {
		t.Errorf("DoseIndex = %d, want 5", rc.DoseIndex)
	}
}

func TestColumns_DirectMatch(t *testing.T) {
	rows := [][]string{
		{"Consecutivo", "Fecha de atención", "Fiebre amarilla", "Sarampión"},
		{"1", "1/2/25", "PRIMERA DOSIS", ""},
		{"2", "1/3/25", "SEGUNDA DOSIS", "PRIMERA"},
	}
	rc, err := Columns(input(rows, model.HeaderStructure{HeaderRow: 0}))
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	if rc.Strategy != "direct" {
		t.Errorf("Strategy = %q, want direct", rc.Strategy)
	}
	if !reflect.DeepEqual(rc.Indices, []int{2}) {
		t.Errorf("Indices = %v, want [2]", rc.Indices)
	}
	// No "dosis" label; value sniffing identifies the column.
	if rc.DoseIndex != 2 {
		t.Errorf("DoseIndex = %d, want 2", rc.DoseIndex)
	}
}

func TestColumns_DirectMatch_AliasWholeToken(t *testing.T) {
	rows := [][]string{
		{"Consecutivo", "FA", "Fallecido"},
		{"1", "PRIMERA", "NO"},
	}
	rc, err := Columns(input(rows, model.HeaderStructure{HeaderRow: 0}))
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	// "FA" matches as a whole token; "Fallecido" must not.
	if !reflect.DeepEqual(rc.Indices, []int{1}) {
		t.Errorf("Indices = %v, want [1]", rc.Indices)
	}
}

func TestColumns_DirectMatch_ExcludesFalsePositives(t *testing.T) {
	rows := [][]string{
		{"Fiebre amarilla", "Observaciones fiebre amarilla"},
		{"PRIMERA", "paciente sano"},
	}
	rc, err := Columns(input(rows, model.HeaderStructure{HeaderRow: 0}))
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	if !reflect.DeepEqual(rc.Indices, []int{0}) {
		t.Errorf("Indices = %v, want [0]", rc.Indices)
	}
}

func TestColumns_ProximityMatch(t *testing.T) {
	// The vaccine name appears in the header row but its own column holds
	// no data; the dose/lote columns sit beside it without naming it.
	rows := [][]string{
		{"Consecutivo", "Vacuna: fiebre amarilla aplicada", "Dosis", "Lote", "Comentario"},
		{"1", "", "PRIMERA", "L-1", ""},
	}
	in := input(rows, model.HeaderStructure{HeaderRow: 0})
	// Defeat the direct strategy: its single hit is the group label, which
	// also mentions the vaccine, so force a vocabulary where the group cell
	// is a known false positive.
	in.M.FalsePositives = append(in.M.FalsePositives, "aplicada")

	rc, err := Columns(in)
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	if rc.Strategy != "proximity" {
		t.Errorf("Strategy = %q, want proximity", rc.Strategy)
	}
	if !reflect.DeepEqual(rc.Indices, []int{2}) {
		t.Errorf("Indices = %v, want [2] (dose-labeled subset)", rc.Indices)
	}
	if rc.DoseIndex != 2 {
		t.Errorf("DoseIndex = %d, want 2", rc.DoseIndex)
	}
}

func TestColumns_RelocationMatch(t *testing.T) {
	rows := [][]string{
		{"SECRETARIA DE SALUD"},
		{""},
		{"Consecutivo", "Fecha", "Fiebre amarilla"},
		{"1", "1/2/25", "PRIMERA"},
	}
	rc, err := Columns(input(rows, model.HeaderStructure{HeaderRow: 0}))
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	if rc.Strategy != "relocation" {
		t.Errorf("Strategy = %q, want relocation", rc.Strategy)
	}
	if rc.HeaderRow != 2 {
		t.Errorf("HeaderRow = %d, want 2", rc.HeaderRow)
	}
	if !reflect.DeepEqual(rc.Indices, []int{2}) {
		t.Errorf("Indices = %v, want [2]", rc.Indices)
	}
}

func TestColumns_NotFound(t *testing.T) {
	rows := [][]string{
		{"Consecutivo", "Fecha", "Sarampión"},
		{"1", "1/2/25", "PRIMERA"},
	}
	_, err := Columns(input(rows, model.HeaderStructure{HeaderRow: 0}))
	if !errors.Is(err, ErrColumnsNotFound) {
		t.Fatalf("err = %v, want ErrColumnsNotFound", err)
	}
}

func TestColumns_Deterministic(t *testing.T) {
	rows := [][]string{
		{"Fiebre amarilla", "Fiebre amarilla refuerzo", "Dosis fiebre amarilla"},
		{"PRIMERA", "REFUERZO", "SEGUNDA"},
	}
	first, err := Columns(input(rows, model.HeaderStructure{HeaderRow: 0}))
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Columns(input(rows, model.HeaderStructure{HeaderRow: 0}))
		if err != nil {
			t.Fatalf("Columns (run %d): %v", i, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, again)
		}
	}
}

func TestIdentifyDoseColumn_LabelWins(t *testing.T) {
	rows := [][]string{
		{"Lote", "Dosis"},
		{"PRIMERA", "SEGUNDA"},
	}
	rc := model.ResolvedColumns{HeaderRow: 0, Indices: []int{0, 1}}
	if got := IdentifyDoseColumn(rows, rc, config.DefaultMatching().DoseKeywords); got != 1 {
		t.Errorf("IdentifyDoseColumn = %d, want 1 (label match)", got)
	}
}

func TestIdentifyDoseColumn_NoCandidate(t *testing.T) {
	rows := [][]string{
		{"Lote", "Fecha"},
		{"L-1", "1/2/25"},
	}
	rc := model.ResolvedColumns{HeaderRow: 0, Indices: []int{0, 1}}
	if got := IdentifyDoseColumn(rows, rc, config.DefaultMatching().DoseKeywords); got != -1 {
		t.Errorf("IdentifyDoseColumn = %d, want -1", got)
	}
}
