package extract

import (
	"regexp"
	"strings"
	"unicode"
)

var tagRE = regexp.MustCompile(`<[^>]+>`)

// linkPrefixes mark tokens that are dropped entirely during
// normalization. "https" is covered by "http".
var linkPrefixes = []string{"http", "www", "<http", "<www"}

// Normalize produces the canonical text fed to classification: residual
// markup removed, every run of whitespace (including non-breaking
// spaces) collapsed to one ASCII space, link tokens dropped. The
// function is idempotent.
func Normalize(s string) string {
	s = tagRE.ReplaceAllString(s, " ")

	tokens := strings.FieldsFunc(s, unicode.IsSpace)
	kept := tokens[:0]
	for _, tok := range tokens {
		if isLinkToken(tok) {
			continue
		}
		kept = append(kept, tok)
	}

	return strings.Join(kept, " ")
}

func isLinkToken(tok string) bool {
	for _, prefix := range linkPrefixes {
		if strings.HasPrefix(tok, prefix) {
			return true
		}
	}
	return false
}
