package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/MitxelSantos/pai-consolidator/internal/model"
)

// Fixed canonical names for two template columns whose hierarchical labels
// carry a placeholder category cell.
const (
	sequenceLabel      = "Consecutivo"
	attentionDateLabel = "Fecha_Atencion"
)

// Labels flattens every column key into a collision-free identifier. The
// function is idempotent: running it over its own output changes nothing.
// Collisions are resolved by appending the column's positional index to all
// but the first occurrence, so ties break by left-to-right column order; the
// suffix is re-applied while the suffixed name is itself taken, so distinct
// columns never share a label.
func Labels(keys []model.ColumnKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		name := labelFor(k)
		if name == "" {
			name = fmt.Sprintf("col_%d", i)
		}
		out[i] = name
	}

	seen := make(map[string]int, len(out))
	for i, name := range out {
		for {
			if _, dup := seen[name]; !dup {
				break
			}
			name = fmt.Sprintf("%s_%d", name, i)
		}
		seen[name] = i
		out[i] = name
	}
	return out
}

func labelFor(k model.ColumnKey) string {
	if !k.Hierarchical {
		return cleanLabel(k.Label)
	}

	if isPlaceholder(k.Parent) {
		folded := Fold(k.Label)
		if strings.Contains(folded, "consecutivo") {
			return sequenceLabel
		}
		if strings.Contains(folded, "fecha") && strings.Contains(folded, "atencion") {
			return attentionDateLabel
		}
	}

	var parts []string
	for _, part := range []string{k.Parent, k.Label} {
		if isPlaceholder(part) {
			continue
		}
		if cleaned := cleanLabel(part); cleaned != "" {
			parts = append(parts, cleaned)
		}
	}
	return strings.Join(parts, "_")
}

// isPlaceholder reports whether a header cell carries no real label: empty,
// or an auto-generated "Unnamed" filler.
func isPlaceholder(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.HasPrefix(Fold(s), "unnamed")
}

// cleanLabel replaces every run of non-alphanumeric characters with a single
// underscore and trims leading/trailing underscores.
func cleanLabel(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}
