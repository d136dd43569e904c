package normalize

import "strings"

// villageSeparators terminate a village name inside an address.
var villageSeparators = []string{",", ".", "-", ";", "("}

// maxVillageLen caps the extracted run when no separator follows the marker.
const maxVillageLen = 30

// VillageFromAddress extracts a village (vereda) name from a free-text
// address by locating a rural marker keyword and taking the text run that
// follows it, up to the next separator or maxVillageLen characters.
// Returns "" when no marker is present.
func VillageFromAddress(address string, markers []string) string {
	addr := strings.ToUpper(address)
	for _, marker := range markers {
		idx := strings.Index(addr, marker)
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(addr[idx+len(marker):])
		for _, sep := range villageSeparators {
			if sepIdx := strings.Index(rest, sep); sepIdx > 0 {
				return strings.TrimSpace(rest[:sepIdx])
			}
		}
		if len(rest) > maxVillageLen {
			rest = rest[:maxVillageLen]
		}
		return strings.TrimSpace(rest)
	}
	return ""
}
