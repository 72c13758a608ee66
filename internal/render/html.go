package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/bibfold/bibfold/internal/bibtex"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("bibliography").Parse(htmlTemplate))
}

// Options configures HTML generation.
type Options struct {
	Title     string // Page title; defaults to "Bibliography"
	BaseName  string // Output file base name; defaults to "bibliography"
	PageSize  int    // Max entries per page; 0 = single page
	OpenYears int    // How many most-recent year groups start expanded
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() Options {
	return Options{
		Title:     "Bibliography",
		BaseName:  "bibliography",
		PageSize:  0,
		OpenYears: 3,
	}
}

// Page is one generated HTML file.
type Page struct {
	Filename string
	HTML     string
}

// Render generates the bibliography pages for the given entries.
func Render(entries []bibtex.Entry, opts Options) ([]Page, error) {
	if opts.Title == "" {
		opts.Title = "Bibliography"
	}
	if opts.BaseName == "" {
		opts.BaseName = "bibliography"
	}
	if opts.PageSize < 0 {
		return nil, fmt.Errorf("invalid page size %d", opts.PageSize)
	}
	if opts.OpenYears < 0 {
		return nil, fmt.Errorf("invalid open years %d", opts.OpenYears)
	}

	if len(entries) == 0 {
		return []Page{{
			Filename: opts.BaseName + ".html",
			HTML:     emptyHTML(opts.Title),
		}}, nil
	}

	groups := GroupByYear(entries)
	pages := paginate(groups, opts.PageSize)

	out := make([]Page, 0, len(pages))
	groupIdx := 0
	for p, pageGroups := range pages {
		data := pageData{
			Title:      opts.Title,
			PageNum:    p + 1,
			TotalPages: len(pages),
		}
		for _, g := range pageGroups {
			data.Groups = append(data.Groups, groupView(g, groupIdx < opts.OpenYears))
			groupIdx++
		}
		if p > 0 {
			data.PrevLink = pageFilename(opts.BaseName, p, len(pages))
		}
		if p < len(pages)-1 {
			data.NextLink = pageFilename(opts.BaseName, p+2, len(pages))
		}

		var buf bytes.Buffer
		if err := compiledTemplate.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("rendering page %d: %w", p+1, err)
		}
		out = append(out, Page{
			Filename: pageFilename(opts.BaseName, p+1, len(pages)),
			HTML:     buf.String(),
		})
	}
	return out, nil
}

// pageFilename returns base.html for a single-page bibliography and
// base-N.html when there are multiple pages.
func pageFilename(base string, page, total int) string {
	if total <= 1 {
		return base + ".html"
	}
	return fmt.Sprintf("%s-%d.html", base, page)
}

// pageData holds data for one page of the HTML template.
type pageData struct {
	Title      string
	Groups     []groupData
	PageNum    int
	TotalPages int
	PrevLink   string
	NextLink   string
}

type groupData struct {
	Label   string
	Open    bool
	Entries []entryData
}

type entryData struct {
	Key     string
	Title   string
	Authors string
	Venue   string
	Pages   string
	DOI     string
	URL     string
}

// groupView converts a Group into its template form.
func groupView(g Group, open bool) groupData {
	gd := groupData{Label: g.Label, Open: open}
	for _, e := range g.Entries {
		venue := e.Field("journal")
		if venue == "" {
			venue = e.Field("booktitle")
		}
		title := e.Title()
		if title == "" {
			title = e.Key
		}
		gd.Entries = append(gd.Entries, entryData{
			Key:     e.Key,
			Title:   title,
			Authors: bibtex.FormatAuthors(e.Field("author")),
			Venue:   bibtex.StripBraces(venue),
			Pages:   e.Field("pages"),
			DOI:     e.DOI(),
			URL:     e.Field("url"),
		})
	}
	return gd
}

// emptyHTML returns the page shown when the document has no entries.
func emptyHTML(title string) string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>` + template.HTMLEscapeString(title) + `</title>
  <style>
    body {
      font-family: Georgia, "Times New Roman", serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      color: #555;
    }
  </style>
</head>
<body>
  <p>No bibliography entries found.</p>
</body>
</html>
`
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body {
      font-family: Georgia, "Times New Roman", serif;
      max-width: 46rem;
      margin: 2rem auto;
      padding: 0 1rem;
      line-height: 1.5;
      color: #222;
    }
    h1 { font-size: 1.6rem; }
    details { margin: 0.75rem 0; }
    summary {
      cursor: pointer;
      font-weight: bold;
      font-size: 1.15rem;
      padding: 0.25rem 0;
    }
    ul.entries { list-style: none; padding-left: 1rem; margin: 0.5rem 0; }
    ul.entries li { margin: 0.6rem 0; }
    .entry-title { font-style: italic; }
    .entry-meta { color: #555; font-size: 0.92rem; }
    nav.pager { margin-top: 2rem; display: flex; justify-content: space-between; }
    nav.pager .page-num { color: #777; }
    a { color: #1a5276; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
{{- range .Groups}}
  <details{{if .Open}} open{{end}}>
    <summary>{{.Label}} ({{len .Entries}})</summary>
    <ul class="entries">
{{- range .Entries}}
      <li id="{{.Key}}">
        <span class="entry-title">{{.Title}}</span><br>
        <span class="entry-meta">{{.Authors}}{{if .Venue}} &middot; {{.Venue}}{{end}}{{if .Pages}}, pp. {{.Pages}}{{end}}</span>
{{- if .DOI}}
        <br><span class="entry-meta"><a href="https://doi.org/{{.DOI}}">doi:{{.DOI}}</a></span>
{{- else if .URL}}
        <br><span class="entry-meta"><a href="{{.URL}}">{{.URL}}</a></span>
{{- end}}
      </li>
{{- end}}
    </ul>
  </details>
{{- end}}
{{- if gt .TotalPages 1}}
  <nav class="pager">
    <span>{{if .PrevLink}}<a href="{{.PrevLink}}">&larr; Newer</a>{{end}}</span>
    <span class="page-num">Page {{.PageNum}} of {{.TotalPages}}</span>
    <span>{{if .NextLink}}<a href="{{.NextLink}}">Older &rarr;</a>{{end}}</span>
  </nav>
{{- end}}
</body>
</html>
`
