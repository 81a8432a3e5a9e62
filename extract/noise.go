package extract

import (
	"regexp"
	"strings"
)

var (
	whitespaceRunRe = regexp.MustCompile(`\s+`)
	wordRe          = regexp.MustCompile(`[a-z]+`)

	// Some documents leak a stray leading letter into the subject name,
	// e.g. "DINTRODUCTION TO ..." for "INTRODUCTION TO ...".
	strayLeadingLetterRe = regexp.MustCompile(`(?i)^[a-z](introduction|principles|fundamentals)`)
)

// headerTokens are table-header fragments that repeat inside extracted text.
// A line whose words are all header tokens carries no subject name content.
var headerTokens = map[string]bool{
	"subject":   true,
	"code":      true,
	"internal":  true,
	"external":  true,
	"marks":     true,
	"total":     true,
	"result":    true,
	"announced": true,
	"updated":   true,
	"on":        true,
}

// isNoiseLine reports whether a line is recognized boilerplate rather than
// subject name content: empty lines, nomenclature/abbreviation footnotes,
// signature blocks, and repeated table-header fragments.
func isNoiseLine(text string) bool {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return true
	}
	if strings.Contains(lowered, "nomenclature") || strings.Contains(lowered, "abbreviations") || strings.HasPrefix(lowered, "note") {
		return true
	}
	if strings.HasPrefix(lowered, "results of") || strings.Contains(lowered, "registrar") || strings.Contains(lowered, "sd/") {
		return true
	}

	words := wordRe.FindAllString(lowered, -1)
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if !headerTokens[w] {
			return false
		}
	}
	return true
}

// cleanSubjectName collapses whitespace runs and repairs the stray-leading-
// letter encoding glitch for names starting with a common title word.
func cleanSubjectName(name string) string {
	n := strings.TrimSpace(whitespaceRunRe.ReplaceAllString(name, " "))
	if len(n) >= 12 && strayLeadingLetterRe.MatchString(n) {
		n = strings.TrimLeft(n[1:], " ")
	}
	return n
}
