// Package pdfscan matches PDF files against bibliography entries by
// the DOI printed in the document.
package pdfscan

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// ExtractDOI extracts a DOI from a PDF file.
// It searches the first few pages for DOI patterns; an empty result
// with nil error means no DOI was found.
func ExtractDOI(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// DOI is usually on the first page
	maxPages := 3
	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if doi := findDOI(text); doi != "" {
			return doi, nil
		}
	}

	return "", nil
}

// findDOI finds the first DOI pattern in text and cleans it up.
func findDOI(text string) string {
	match := doiPattern.FindString(text)
	if match == "" {
		return ""
	}

	// Trailing punctuation is usually sentence context, not DOI
	match = strings.TrimRight(match, ".,;:)")

	return match
}
