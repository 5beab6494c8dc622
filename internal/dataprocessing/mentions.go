package dataprocessing

import (
	"strings"

	"surveycli/pkg/contracts/domain"
)

// roleMarkers are the substrings that mark a data science role.
var roleMarkers = []string{"data scientist", "machine learning", "statistics"}

// Mentions reports whether language appears in a semicolon separated answer.
// The check is a substring match against "lang;", ";lang" and "; lang", or
// an exact match, all case-insensitive. This is not a tokenizer: "r;" also
// matches inside "assembler;" and ";r" inside ";ruby".
func Mentions(language, text string) bool {
	lang := strings.ToLower(language)
	s := strings.ToLower(text)
	return strings.Contains(s, lang+";") ||
		strings.Contains(s, ";"+lang) ||
		strings.Contains(s, "; "+lang) ||
		s == lang
}

// MentionsText is Mentions over an answer that may be missing. A missing
// answer is matched as "nan".
func MentionsText(language string, t domain.Text) bool {
	return Mentions(language, t.String())
}

// IsRelevantRole reports whether a role answer contains a data science
// marker. Plain substring containment, so "biostatistics" matches.
func IsRelevantRole(devType string) bool {
	s := strings.ToLower(devType)
	for _, marker := range roleMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// IsRelevantRoleText is IsRelevantRole over an answer that may be missing.
func IsRelevantRoleText(t domain.Text) bool {
	return IsRelevantRole(t.String())
}
