package doi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sampleBibTeX = `@article{Fu_2019,
  title = {Metal halide perovskite nanostructures},
  year = {2019},
  doi = {10.1038/s41578-019-0080-9}
}`

func TestFetchBibTeX(t *testing.T) {
	var gotAccept, gotUA, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		gotPath = r.URL.Path
		w.Write([]byte(sampleBibTeX))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithMailto("librarian@example.org"))
	bib, err := c.FetchBibTeX(context.Background(), "10.1038/s41578-019-0080-9")
	if err != nil {
		t.Fatalf("FetchBibTeX() error: %v", err)
	}
	if !strings.HasPrefix(bib, "@article{Fu_2019,") {
		t.Errorf("unexpected BibTeX: %q", bib)
	}
	if !strings.HasPrefix(gotAccept, "application/x-bibtex") {
		t.Errorf("Accept = %q, want application/x-bibtex", gotAccept)
	}
	if !strings.Contains(gotUA, "mailto:librarian@example.org") {
		t.Errorf("User-Agent = %q, want mailto appended", gotUA)
	}
	if gotPath != "/10.1038/s41578-019-0080-9" {
		t.Errorf("request path = %q", gotPath)
	}
}

func TestFetchBibTeX_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "DOI not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.FetchBibTeX(context.Background(), "10.9999/nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestFetchBibTeX_NoBibTeX(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"406 not acceptable", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no acceptable rendition", http.StatusNotAcceptable)
		}},
		{"html body instead of bibtex", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>landing page</html>"))
		}},
		{"empty body", func(w http.ResponseWriter, r *http.Request) {}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient(WithBaseURL(srv.URL))
			_, err := c.FetchBibTeX(context.Background(), "10.1/x")
			if !errors.Is(err, ErrNoBibTeX) {
				t.Errorf("error = %v, want ErrNoBibTeX", err)
			}
		})
	}
}

func TestFetchBibTeX_EmptyDOI(t *testing.T) {
	c := NewClient()
	if _, err := c.FetchBibTeX(context.Background(), "  "); err == nil {
		t.Error("empty DOI should error without a network call")
	}
}

func TestFetchBibTeX_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleBibTeX))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(WithBaseURL(srv.URL))
	if _, err := c.FetchBibTeX(ctx, "10.1/x"); err == nil {
		t.Error("canceled context should abort the fetch")
	}
}
