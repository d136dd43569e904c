package normalize

import (
	"testing"

	"github.com/MitxelSantos/pai-consolidator/internal/model"
)

func TestClassifyAge_Boundaries(t *testing.T) {
	cases := []struct {
		age  int
		want model.AgeGroup
	}{
		{0, model.AgeUnderOne},
		{1, model.AgeOneToFive},
		{5, model.AgeOneToFive},
		{6, model.AgeSixToTen},
		{10, model.AgeSixToTen},
		{11, model.AgeElevenTo18},
		{18, model.AgeElevenTo18},
		{19, model.AgeNineteenTo60},
		{60, model.AgeNineteenTo60},
		{61, model.AgeOver60},
		{95, model.AgeOver60},
	}
	for _, c := range cases {
		if got := ClassifyAge(c.age); got != c.want {
			t.Errorf("ClassifyAge(%d) = %q, want %q", c.age, got, c.want)
		}
	}
}

func TestClassifyAgeGroup_NonNumeric(t *testing.T) {
	for _, in := range []string{"", "N/A", "sin dato", "---"} {
		if got := ClassifyAgeGroup(in); got != model.AgeUnspecified {
			t.Errorf("ClassifyAgeGroup(%q) = %q, want %q", in, got, model.AgeUnspecified)
		}
	}
}

func TestParseAge(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"5", 5, true},
		{"5 años", 5, true},
		{"edad: 12", 12, true},
		{"", 0, false},
		{"sin dato", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseAge(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseAge(%q) = (%d, %v), want (%d, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}
