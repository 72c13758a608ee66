package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bibfold/bibfold/internal/bibtex"
)

// Constants for output formatting.
const (
	DefaultSearchLimit = 50 // Default limit for search results

	ListTitleMaxLen   = 60 // Title truncation in list output
	SearchTitleMaxLen = 70 // Title truncation in search output
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or
// JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// printEntriesHuman prints entries as aligned key/year/title rows.
func printEntriesHuman(entries []bibtex.Entry, titleMaxLen int) {
	for _, e := range entries {
		year := "----"
		if y := e.Year(); y != 0 {
			year = fmt.Sprintf("%d", y)
		}
		outputHuman("  %-24s %s  %s\n", e.Key, year, truncateString(e.Title(), titleMaxLen))
	}
}

// joinProject resolves a config-relative path against the project root.
func joinProject(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
