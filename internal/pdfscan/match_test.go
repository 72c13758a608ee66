package pdfscan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bibfold/bibfold/internal/bibtex"
)

func TestFindDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "doi: 10.1038/s41578-019-0080-9 published", "10.1038/s41578-019-0080-9"},
		{"trailing period", "see 10.1021/cr300459q.", "10.1021/cr300459q"},
		{"trailing paren", "(10.1021/cr300459q)", "10.1021/cr300459q"},
		{"none", "no identifier here", ""},
		{"short prefix rejected", "10.12/abc", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := findDOI(tt.text); got != tt.want {
				t.Errorf("findDOI(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestMatchEntries(t *testing.T) {
	entries := []bibtex.Entry{
		{Type: "article", Key: "fu2019", Fields: map[string]string{
			"doi": "https://doi.org/10.1038/S41578-019-0080-9",
		}},
		{Type: "article", Key: "nodoi", Fields: map[string]string{}},
	}

	extract := func(path string) (string, error) {
		switch filepath.Base(path) {
		case "fu.pdf":
			return "10.1038/s41578-019-0080-9", nil
		case "stranger.pdf":
			return "10.9999/elsewhere", nil
		case "scan.pdf":
			return "", nil
		default:
			return "", errors.New("encrypted")
		}
	}

	matches := MatchEntries([]string{"fu.pdf", "stranger.pdf", "scan.pdf", "broken.pdf"}, entries, extract)
	if len(matches) != 4 {
		t.Fatalf("MatchEntries() returned %d matches, want 4", len(matches))
	}

	if matches[0].Key != "fu2019" {
		t.Errorf("fu.pdf matched %q, want fu2019 (DOI normalization)", matches[0].Key)
	}
	if matches[1].Key != "" || matches[1].DOI != "10.9999/elsewhere" {
		t.Errorf("stranger.pdf = %+v, want unmatched with DOI kept", matches[1])
	}
	if matches[2].Key != "" || matches[2].DOI != "" {
		t.Errorf("scan.pdf = %+v, want no key and no DOI", matches[2])
	}
	if matches[3].Key != "" {
		t.Errorf("broken.pdf = %+v, extraction errors report unmatched", matches[3])
	}
}

func TestListPDFs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "B.PDF", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.pdf"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	files, err := listPDFs(dir)
	if err != nil {
		t.Fatalf("listPDFs() error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("listPDFs() returned %d files, want 2 (case-insensitive, files only)", len(files))
	}
}

func TestMatchDir_MissingDir(t *testing.T) {
	if _, err := MatchDir(filepath.Join(t.TempDir(), "absent"), nil); err == nil {
		t.Error("missing directory should error")
	}
}
