// Package render turns parsed entries into grouped, human-readable HTML.
package render

import (
	"sort"
	"strconv"

	"github.com/bibfold/bibfold/internal/bibtex"
)

// UndatedLabel heads the group of entries with no parseable year.
const UndatedLabel = "Undated"

// Group is one collapsible year section of the bibliography.
type Group struct {
	Year    int // 0 for undated
	Label   string
	Entries []bibtex.Entry
}

// GroupByYear buckets entries by their year field, newest year first.
// Entries without a parseable year land in a trailing Undated group.
// Document order is preserved within each group.
func GroupByYear(entries []bibtex.Entry) []Group {
	byYear := make(map[int][]bibtex.Entry)
	var years []int
	for _, e := range entries {
		y := e.Year()
		if _, seen := byYear[y]; !seen && y != 0 {
			years = append(years, y)
		}
		byYear[y] = append(byYear[y], e)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	groups := make([]Group, 0, len(years)+1)
	for _, y := range years {
		groups = append(groups, Group{
			Year:    y,
			Label:   strconv.Itoa(y),
			Entries: byYear[y],
		})
	}
	if undated := byYear[0]; len(undated) > 0 {
		groups = append(groups, Group{Label: UndatedLabel, Entries: undated})
	}
	return groups
}

// paginate slices groups into pages of at most pageSize entries.
// Groups are never split: a group larger than pageSize gets a page to
// itself. pageSize <= 0 means everything on one page.
func paginate(groups []Group, pageSize int) [][]Group {
	if len(groups) == 0 {
		return nil
	}
	if pageSize <= 0 {
		return [][]Group{groups}
	}
	var pages [][]Group
	var page []Group
	count := 0
	for _, g := range groups {
		if len(page) > 0 && count+len(g.Entries) > pageSize {
			pages = append(pages, page)
			page = nil
			count = 0
		}
		page = append(page, g)
		count += len(g.Entries)
	}
	if len(page) > 0 {
		pages = append(pages, page)
	}
	return pages
}
