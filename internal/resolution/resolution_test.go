package resolution

import (
	"strings"
	"testing"
)

func TestCanonicalCategoryTable(t *testing.T) {
	cases := map[string]string{
		"12v":          "12V",
		"220v":         "220V",
		"20V":          "20v",
		"consumibles":  "Consumibles",
		"explosion":    "Explosion",
		"explosión":    "Explosion",
		"manuales":     "Manuales",
		"Herramientas": "Herramientas",
		"12V":          "12V",
	}
	for in, want := range cases {
		if got := CanonicalCategory(in); got != want {
			t.Fatalf("CanonicalCategory(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestCanonicalCategoryIsIdempotent(t *testing.T) {
	for key := range CategoryAliases() {
		once := CanonicalCategory(key)
		if twice := CanonicalCategory(once); twice != once {
			t.Fatalf("alias(alias(%q)) = %q, expected %q", key, twice, once)
		}
	}
}

func TestCategoryAliasesReturnsCopy(t *testing.T) {
	aliases := CategoryAliases()
	aliases["12v"] = "mutated"
	if CanonicalCategory("12v") != "12V" {
		t.Fatalf("expected alias table to be immutable")
	}
}

func TestFoldAccents(t *testing.T) {
	cases := map[string]string{
		"Paysandú":   "Paysandu",
		"Tacuarembó": "Tacuarembo",
		"explosión":  "explosion",
		"Montevideo": "Montevideo",
		"Ñandú":      "Nandu",
	}
	for in, want := range cases {
		if got := FoldAccents(in); got != want {
			t.Fatalf("FoldAccents(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestLocationKey(t *testing.T) {
	if got := LocationKey(" Paysandú ", false); got != "paysandú" {
		t.Fatalf("expected paysandú, got %q", got)
	}
	if got := LocationKey("PAYSANDÚ", true); got != "paysandu" {
		t.Fatalf("expected paysandu, got %q", got)
	}
}

func TestTranslatePairsMatchFoldAccents(t *testing.T) {
	if len([]rune(AccentedLetters)) != len([]rune(PlainLetters)) {
		t.Fatalf("translate pairs have different lengths")
	}
	if got := FoldAccents(AccentedLetters); got != PlainLetters {
		t.Fatalf("expected %q, got %q", PlainLetters, got)
	}
}

func TestLocationKeyMatchesStoredFold(t *testing.T) {
	stored := map[string]string{
		"Colônia":      "colonia",
		"São Carlos":   "sao carlos",
		"Curaçao":      "curacao",
		"Tacuarembó":   "tacuarembo",
		"Köln":         "koln",
		"Ñangapiré":    "nangapire",
		"Villa Ansína": "villa ansina",
	}
	fold := func(s string) string {
		from, to := []rune(AccentedLetters), []rune(PlainLetters)
		out := []rune(strings.ToLower(s))
		for i, r := range out {
			for j, a := range from {
				if r == a {
					out[i] = to[j]
				}
			}
		}
		return string(out)
	}
	for value, want := range stored {
		if got := fold(value); got != want {
			t.Fatalf("translate(%q): expected %q, got %q", value, want, got)
		}
		if got := LocationKey(value, true); got != want {
			t.Fatalf("LocationKey(%q): expected %q, got %q", value, want, got)
		}
	}
}
