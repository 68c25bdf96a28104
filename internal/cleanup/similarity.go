package cleanup

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// similarity returns a 0..1 normalized edit-distance ratio. Inputs are
// lowercased and whitespace-collapsed first so formatting drift between
// two copies of the same pattern does not mask the duplicate.
func similarity(a, b string) float64 {
	a, b = normalize(a), normalize(b)
	if a == "" && b == "" {
		return 1
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
