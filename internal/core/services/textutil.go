package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// spanishStopwords are dropped before lexical comparison. The corpus is
// Spanish, so English function words are not covered.
var spanishStopwords = map[string]struct{}{
	"a": {}, "al": {}, "algo": {}, "ante": {}, "antes": {}, "aqui": {},
	"como": {}, "con": {}, "contra": {}, "cual": {}, "cuales": {},
	"cuando": {}, "cuanto": {}, "de": {}, "del": {}, "desde": {},
	"donde": {}, "dos": {}, "el": {}, "ella": {}, "ellas": {}, "ellos": {},
	"en": {}, "entre": {}, "era": {}, "es": {}, "esa": {}, "ese": {},
	"eso": {}, "esta": {}, "estan": {}, "este": {}, "esto": {}, "fue": {},
	"ha": {}, "hace": {}, "hacia": {}, "hay": {}, "la": {}, "las": {},
	"le": {}, "les": {}, "lo": {}, "los": {}, "mas": {}, "me": {},
	"mi": {}, "muy": {}, "nada": {}, "ni": {}, "no": {}, "nos": {},
	"nosotros": {}, "o": {}, "os": {}, "otra": {}, "otro": {}, "para": {},
	"pero": {}, "poco": {}, "por": {}, "porque": {}, "puede": {},
	"pues": {}, "que": {}, "quien": {}, "se": {}, "ser": {}, "si": {},
	"sin": {}, "sobre": {}, "son": {}, "su": {}, "sus": {}, "tambien": {},
	"te": {}, "tiene": {}, "todo": {}, "tu": {}, "un": {}, "una": {},
	"uno": {}, "unos": {}, "ya": {}, "yo": {},
}

// foldTransformer removes diacritics: decompose, drop combining marks,
// recompose. "teléfono" and "telefono" must compare equal.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeText casefolds, strips diacritics and replaces every
// non-alphanumeric rune with a space.
func normalizeText(s string) string {
	s = strings.ToLower(s)
	if folded, _, err := transform.String(foldTransformer, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// contentTokens normalizes s and returns its tokens with stopwords and
// tokens of length <= 2 removed.
func contentTokens(s string) []string {
	fields := strings.Fields(normalizeText(s))

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) <= 2 {
			continue
		}
		if _, ok := spanishStopwords[f]; ok {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// tokenSet returns the content tokens of s as a set.
func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range contentTokens(s) {
		set[tok] = struct{}{}
	}
	return set
}

// jaccard computes the Jaccard similarity of two token sets.
// Two empty sets have similarity 0, not 1: no shared content is no support.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// hasLetter reports whether s contains at least one letter.
func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
