package services

import (
	"strings"
	"unicode"

	"chegoou/models"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and drops combining marks, so "Açaí" becomes
// "Acai". Recomposing afterwards keeps the output in the usual NFC form.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeText lowercases, strips diacritics and trims surrounding
// whitespace. Idempotent: normalizing twice gives the same string.
func NormalizeText(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	return strings.TrimSpace(strings.ToLower(out))
}

// EditDistance is the Levenshtein distance between a and b over runes,
// with insertion, deletion and substitution each costing 1.
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(rb); i++ {
		curr[0] = i
		for j := 1; j <= len(ra); j++ {
			if rb[i-1] == ra[j-1] {
				curr[j] = prev[j-1]
			} else {
				curr[j] = min3(prev[j-1]+1, curr[j-1]+1, prev[j]+1)
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(ra)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// Query words shorter than this are never fuzzy matched: with an error budget
// of 1 almost every short word matches something.
const minFuzzyWordLen = 3

// IsMatch reports whether query matches source for search-as-you-type.
// A substring hit on the normalized strings wins outright; otherwise each
// query word of length >= 3 is fuzzy-compared against every source word with
// an edit budget of 2 for words longer than 5 runes, 1 otherwise.
// Pure predicate: no ranking, callers layer scoring on top if they need it.
func IsMatch(source, query string) bool {
	if source == "" || query == "" {
		return false
	}
	normSource := NormalizeText(source)
	normQuery := NormalizeText(query)

	if strings.Contains(normSource, normQuery) {
		return true
	}

	sourceWords := strings.Fields(normSource)
	for _, qw := range strings.Fields(normQuery) {
		qlen := len([]rune(qw))
		if qlen < minFuzzyWordLen {
			continue
		}
		budget := 1
		if qlen > 5 {
			budget = 2
		}
		for _, sw := range sourceWords {
			if EditDistance(qw, sw) <= budget {
				return true
			}
		}
	}
	return false
}

// FilterCompanies keeps companies whose name or category matches the query.
// An empty query keeps everything.
func FilterCompanies(query string, companies []CompanyWithDistance) []CompanyWithDistance {
	if strings.TrimSpace(query) == "" {
		return companies
	}
	var out []CompanyWithDistance
	for _, cd := range companies {
		if IsMatch(cd.Company.Name, query) || IsMatch(cd.Company.Category, query) {
			out = append(out, cd)
		}
	}
	return out
}

// FilterProducts keeps available products whose name or category matches.
func FilterProducts(query string, products []models.Product) []models.Product {
	var out []models.Product
	for _, p := range products {
		if !p.IsAvailable {
			continue
		}
		if query == "" || IsMatch(p.Name, query) || IsMatch(p.Category, query) {
			out = append(out, p)
		}
	}
	return out
}
