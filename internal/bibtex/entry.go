// Package bibtex parses BibTeX source text into a flat list of entries.
package bibtex

import (
	"strconv"
	"strings"
)

// Entry represents one bibliographic record.
type Entry struct {
	// Type is the lowercased entry kind, e.g. "article" or "inproceedings".
	Type string `json:"type"`
	// Key is the citation key as written, with surrounding whitespace trimmed.
	Key string `json:"key"`
	// Fields maps lowercased field names to their decoded values.
	// When a name is assigned more than once inside an entry, the last
	// occurrence wins.
	Fields map[string]string `json:"fields"`
}

// Field returns the value of the named field, or "" if absent.
// The name is matched case-insensitively.
func (e Entry) Field(name string) string {
	return e.Fields[strings.ToLower(name)]
}

// Year returns the numeric year field, or 0 when missing or non-numeric.
func (e Entry) Year() int {
	y, err := strconv.Atoi(strings.TrimSpace(e.Field("year")))
	if err != nil {
		return 0
	}
	return y
}

// Title returns the title field with brace markup removed for display.
func (e Entry) Title() string {
	return StripBraces(e.Field("title"))
}

// DOI returns the normalized doi field, or "" if absent.
func (e Entry) DOI() string {
	return NormalizeDOI(e.Field("doi"))
}

// StripBraces removes brace markup from a field value for display.
// BibTeX uses braces to protect capitalization ({NiSx}, {LLC}); the
// protected text itself is kept.
func StripBraces(s string) string {
	if !strings.ContainsAny(s, "{}") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '{' || s[i] == '}' {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// NormalizeDOI normalizes a DOI for comparison.
// Removes common prefixes like "https://doi.org/" and lowercases.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	doi = strings.TrimPrefix(doi, "DOI:")
	doi = strings.TrimPrefix(doi, "doi:")
	return strings.ToLower(doi)
}
