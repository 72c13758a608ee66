package bibtex

import "strings"

// authorSeparator joins names in a BibTeX author field.
const authorSeparator = " and "

// SplitAuthors splits an author field value on the literal " and "
// separator, trimming each name. Empty names are dropped.
func SplitAuthors(field string) []string {
	var names []string
	for _, name := range strings.Split(field, authorSeparator) {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// FormatAuthors renders an author field value for display: a single
// name as-is, two names as "A and B", and three or more as
// "A, B, et al." with the remainder elided.
func FormatAuthors(field string) string {
	names := SplitAuthors(field)
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	}
	return names[0] + ", " + names[1] + ", et al."
}
