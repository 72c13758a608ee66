package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPathFunctions(t *testing.T) {
	root := "/test/project"

	tests := []struct {
		name string
		fn   func(string) string
		want string
	}{
		{"BibfoldPath", BibfoldPath, "/test/project/.bibfold"},
		{"ConfigPath", ConfigPath, "/test/project/.bibfold/config.yml"},
		{"CachePath", CachePath, "/test/project/.bibfold/cache"},
		{"DBPath", DBPath, "/test/project/.bibfold/cache/entries.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(root)
			if got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.name, root, got, tt.want)
			}
		})
	}
}

func TestIsProject(t *testing.T) {
	tmpDir := t.TempDir()

	if IsProject(tmpDir) {
		t.Error("IsProject() = true for plain directory")
	}

	if err := os.Mkdir(filepath.Join(tmpDir, BibfoldDir), 0755); err != nil {
		t.Fatalf("creating .bibfold: %v", err)
	}

	if !IsProject(tmpDir) {
		t.Error("IsProject() = false for project directory")
	}
}

func TestIsProject_FileNotDir(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, BibfoldDir), []byte("not a dir"), 0644); err != nil {
		t.Fatalf("creating .bibfold file: %v", err)
	}

	if IsProject(tmpDir) {
		t.Error("IsProject() = true when .bibfold is a file")
	}
}

func TestFindProject(t *testing.T) {
	tmpDir := t.TempDir()
	projectDir := filepath.Join(tmpDir, "project")
	nestedDir := filepath.Join(projectDir, "papers", "drafts")

	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatalf("creating nested dirs: %v", err)
	}
	if err := os.Mkdir(filepath.Join(projectDir, BibfoldDir), 0755); err != nil {
		t.Fatalf("creating .bibfold: %v", err)
	}

	root, err := FindProject(nestedDir)
	if err != nil {
		t.Fatalf("FindProject() error: %v", err)
	}
	if root != projectDir {
		t.Errorf("FindProject() = %q, want %q", root, projectDir)
	}
}

func TestFindProject_NotFound(t *testing.T) {
	if _, err := FindProject(t.TempDir()); err == nil {
		t.Error("FindProject() should error outside a project")
	}
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, BibfoldDir), 0755); err != nil {
		t.Fatalf("creating .bibfold: %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.BibFile != DefaultBibFile {
		t.Errorf("BibFile = %q, want %q", cfg.BibFile, DefaultBibFile)
	}
	if cfg.OpenYears == nil || *cfg.OpenYears != DefaultOpenYears {
		t.Errorf("OpenYears = %v, want %d", cfg.OpenYears, DefaultOpenYears)
	}
}

func TestLoad_ExplicitZeroOpenYears(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, BibfoldDir), 0755); err != nil {
		t.Fatalf("creating .bibfold: %v", err)
	}
	if err := os.WriteFile(ConfigPath(tmpDir), []byte("open_years: 0\n"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.OpenYears == nil || *cfg.OpenYears != 0 {
		t.Errorf("OpenYears = %v, explicit 0 (all collapsed) must not fall back to the default", cfg.OpenYears)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, BibfoldDir), 0755); err != nil {
		t.Fatalf("creating .bibfold: %v", err)
	}

	in := &Config{
		BibFile:  "lab.bib",
		Title:    "Lab Publications",
		PageSize: 40,
		Mailto:   "lab@example.org",
	}
	if err := in.Save(tmpDir); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	out, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if out.BibFile != "lab.bib" || out.Title != "Lab Publications" || out.PageSize != 40 {
		t.Errorf("Load() = %+v, round trip mismatch", out)
	}
	if out.Mailto != "lab@example.org" {
		t.Errorf("Mailto = %q", out.Mailto)
	}
	// Unset fields pick up defaults on load
	if out.OutDir != DefaultOutDir {
		t.Errorf("OutDir = %q, want default %q", out.OutDir, DefaultOutDir)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, BibfoldDir), 0755); err != nil {
		t.Fatalf("creating .bibfold: %v", err)
	}
	if err := os.WriteFile(ConfigPath(tmpDir), []byte("bib_file: [unclosed"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Error("Load() should error on invalid YAML")
	}
}
