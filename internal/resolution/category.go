// Package resolution holds the deterministic normalization applied to agent
// input before it reaches an exact-match query.
package resolution

// categoryAliases maps the spellings agents produce to the stored category name.
// Keys are matched exactly; anything else passes through unchanged.
var categoryAliases = map[string]string{
	"12v":         "12V",
	"220v":        "220V",
	"20V":         "20v",
	"consumibles": "Consumibles",
	"explosion":   "Explosion",
	"explosión":   "Explosion",
	"manuales":    "Manuales",
}

// CanonicalCategory returns the stored category name for name.
func CanonicalCategory(name string) string {
	if canonical, ok := categoryAliases[name]; ok {
		return canonical
	}
	return name
}

// CategoryAliases returns a copy of the alias table.
func CategoryAliases() map[string]string {
	out := make(map[string]string, len(categoryAliases))
	for k, v := range categoryAliases {
		out[k] = v
	}
	return out
}
