package discover

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/MitxelSantos/pai-consolidator/internal/model"
)

var yearPattern = regexp.MustCompile(`(19|20)\d{2}`)

// filenameMunicipality matches MUNICIPIO_... and REGISTRO_MUNICIPIO_...
// filename conventions.
var (
	leadingWord  = regexp.MustCompile(`^([A-Za-zÁÉÍÓÚÑáéíóúñ]+)_`)
	registroWord = regexp.MustCompile(`^REGISTRO_([A-Za-zÁÉÍÓÚÑáéíóúñ]+)_`)
)

// PathInfo extracts best-effort metadata from a file's full path by
// pattern-matching path segments and filename tokens. Unresolvable parts
// stay empty; the function never fails.
func PathInfo(path string, months map[string]string) model.FileMetadata {
	var meta model.FileMetadata

	components := strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
	stem := strings.ToUpper(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

	// Year-folder convention: REGISTROS_<year>/<municipality>/<file>.
	for i, comp := range components[:len(components)-1] {
		upper := strings.ToUpper(comp)
		if !strings.HasPrefix(upper, "REGISTROS_") {
			continue
		}
		if y := yearPattern.FindString(upper); y != "" {
			meta.Year = y
		}
		if i+1 < len(components)-1 {
			meta.Municipality = strings.ToUpper(components[i+1])
		}
	}

	// Year fallback: any 4-digit year in a directory segment or the name.
	if meta.Year == "" {
		for _, comp := range components[:len(components)-1] {
			if y := yearPattern.FindString(comp); y != "" {
				meta.Year = y
				break
			}
		}
	}
	if meta.Year == "" {
		meta.Year = yearPattern.FindString(stem)
	}

	meta.Month = monthFromName(stem, months)

	if meta.Municipality == "" {
		meta.Municipality = municipalityFallback(components, stem)
	}
	return meta
}

// monthFromName scans the filename for a month token. Longer names are
// tried before abbreviations so "MAR" cannot shadow "MARZO".
func monthFromName(stem string, months map[string]string) string {
	names := make([]string, 0, len(months))
	for name := range months {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	for _, name := range names {
		if strings.Contains(stem, name) {
			return months[name]
		}
	}
	return ""
}

// municipalityFallback tries the deepest all-uppercase parent folder that
// is not a year folder, then filename conventions, then the file stem.
func municipalityFallback(components []string, stem string) string {
	for i := len(components) - 2; i >= 0; i-- {
		comp := components[i]
		if comp == "" || comp == "." || isYearFolder(comp) {
			continue
		}
		if comp == strings.ToUpper(comp) && yearPattern.FindString(comp) == "" {
			return strings.ToUpper(comp)
		}
	}

	if m := registroWord.FindStringSubmatch(stem); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := leadingWord.FindStringSubmatch(stem); m != nil && !strings.EqualFold(m[1], "registro") {
		return strings.ToUpper(m[1])
	}
	return stem
}
