package pdfscan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bibfold/bibfold/internal/bibtex"
)

// Match links a PDF file to a bibliography entry.
// Key is empty when the file matched no entry.
type Match struct {
	File string `json:"file"`
	Key  string `json:"key,omitempty"`
	DOI  string `json:"doi,omitempty"`
}

// MatchEntries pairs extracted DOIs with entries by normalized DOI.
// extract is injectable for testing; pass ExtractDOI in production.
func MatchEntries(files []string, entries []bibtex.Entry, extract func(string) (string, error)) []Match {
	byDOI := make(map[string]string)
	for _, e := range entries {
		if doi := e.DOI(); doi != "" {
			byDOI[doi] = e.Key
		}
	}

	matches := make([]Match, 0, len(files))
	for _, file := range files {
		doi, err := extract(file)
		if err != nil {
			// Unreadable PDFs are reported unmatched, not fatal
			matches = append(matches, Match{File: file})
			continue
		}
		doi = bibtex.NormalizeDOI(doi)
		matches = append(matches, Match{
			File: file,
			Key:  byDOI[doi],
			DOI:  doi,
		})
	}
	return matches
}

// MatchDir scans a directory for PDF files and matches each against
// the entries by extracted DOI.
func MatchDir(dir string, entries []bibtex.Entry) ([]Match, error) {
	files, err := listPDFs(dir)
	if err != nil {
		return nil, err
	}
	return MatchEntries(files, entries, ExtractDOI), nil
}

// listPDFs returns the .pdf files directly inside dir, sorted.
func listPDFs(dir string) ([]string, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var files []string
	for _, d := range dirents {
		if d.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ".pdf") {
			files = append(files, filepath.Join(dir, d.Name()))
		}
	}
	return files, nil
}
