package normalize

import (
	"regexp"
	"strconv"

	"github.com/MitxelSantos/pai-consolidator/internal/model"
)

var firstNumber = regexp.MustCompile(`-?\d+`)

// ParseAge extracts an age in years from a cell that may hold a bare number
// or a number embedded in text ("5 años").
func ParseAge(s string) (int, bool) {
	match := firstNumber.FindString(s)
	if match == "" {
		return 0, false
	}
	age, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return age, true
}

// ClassifyAgeGroup buckets an age cell into the fixed PAI taxonomy.
// Non-numeric or missing input classifies as "No especificado".
func ClassifyAgeGroup(s string) model.AgeGroup {
	age, ok := ParseAge(s)
	if !ok {
		return model.AgeUnspecified
	}
	return ClassifyAge(age)
}

// ClassifyAge buckets a numeric age. Boundaries are inclusive upper bounds:
// 1 and 5 fall in "1-5 años", 10 in "6-10 años", 18 in "11-18 años",
// 60 in "19-60 años".
func ClassifyAge(age int) model.AgeGroup {
	switch {
	case age < 1:
		return model.AgeUnderOne
	case age <= 5:
		return model.AgeOneToFive
	case age <= 10:
		return model.AgeSixToTen
	case age <= 18:
		return model.AgeElevenTo18
	case age <= 60:
		return model.AgeNineteenTo60
	default:
		return model.AgeOver60
	}
}
