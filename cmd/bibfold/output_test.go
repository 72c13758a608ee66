package main

import (
	"path/filepath"
	"testing"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		maxLen int
		want   string
	}{
		{"short string unchanged", "abc", 10, "abc"},
		{"exact length unchanged", "abcdefghij", 10, "abcdefghij"},
		{"long string truncated", "abcdefghijk", 10, "abcdefg..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateString(tt.s, tt.maxLen); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestJoinProject(t *testing.T) {
	if got := joinProject("/proj", "refs.bib"); got != filepath.Join("/proj", "refs.bib") {
		t.Errorf("joinProject relative = %q", got)
	}
	abs := filepath.Join(string(filepath.Separator), "elsewhere", "refs.bib")
	if got := joinProject("/proj", abs); got != abs {
		t.Errorf("joinProject absolute = %q, want unchanged", got)
	}
}
