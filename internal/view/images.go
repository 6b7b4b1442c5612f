package view

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Images resolves a display image for a card name. Lookup must not block; a
// false result makes the view fall back to text.
type Images interface {
	Lookup(name string) (string, bool)
}

const DefaultImageBase = "https://api.scryfall.com"

// Scryfall builds named-card image URLs.
type Scryfall struct {
	BaseURL string
}

func (s Scryfall) Lookup(name string) (string, bool) {
	n := norm.NFC.String(strings.TrimSpace(name))
	if n == "" {
		return "", false
	}
	base := s.BaseURL
	if base == "" {
		base = DefaultImageBase
	}
	q := url.Values{}
	q.Set("exact", n)
	q.Set("format", "image")
	return strings.TrimSuffix(base, "/") + "/cards/named?" + q.Encode(), true
}

// FoldName reduces a card name for loose matching: accents stripped and case folded.
func FoldName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, strings.TrimSpace(name))
	if err != nil {
		s = name
	}
	return cases.Fold().String(s)
}
