// Package moderation censors configured word patterns in message text
// before the text is committed to the log.
package moderation

import (
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator matches a wordlist against message text with a single
// Aho-Corasick automaton, built once at startup. Matching is
// case-insensitive; matched spans are overwritten with the mask rune.
type Moderator struct {
	matcher *goahocorasick.Machine
	mask    rune
}

func NewModerator(words []string, mask rune) (*Moderator, error) {
	patterns := make([][]rune, 0, len(words))
	for _, word := range words {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		patterns = append(patterns, []rune(strings.ToLower(word)))
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: m, mask: mask}, nil
}

// Censor replaces every matched span with the mask rune. The search
// runs over a lowercased copy; positions map one-to-one back to the
// original runes, so casing and length are preserved around matches.
func (m *Moderator) Censor(text string) string {
	original := []rune(text)
	lowered := make([]rune, len(original))
	for i, r := range original {
		lowered[i] = unicode.ToLower(r)
	}

	spans := m.matcher.MultiPatternSearch(lowered, false)
	if len(spans) == 0 {
		return text
	}

	for _, span := range spans {
		for i := span.Pos; i < span.Pos+len(span.Word) && i < len(original); i++ {
			original[i] = m.mask
		}
	}
	return string(original)
}

// LoadWordlist splits a wordlist file's content into patterns, one per
// line, ignoring blanks and '#' comments.
func LoadWordlist(content string) []string {
	var words []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words
}
