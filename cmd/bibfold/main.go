// Package main provides the bibfold CLI entry point.
package main

import (
	"os"

	"github.com/bibfold/bibfold/internal/bibtex"
	"github.com/bibfold/bibfold/internal/config"
	"github.com/bibfold/bibfold/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bibfold",
	Short: "BibTeX to grouped HTML bibliography generator",
	Long: `bibfold parses BibTeX documents and renders them as year-grouped,
collapsible HTML pages.

It keeps an ephemeral SQLite index of the parsed entries for fast
listing and full-text search. The .bib document stays the source of
truth; the index is rebuilt from it at any time. All commands output
JSON by default for easy integration with other tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// mustFindProject locates the enclosing bibfold project or exits.
// The BIBFOLD_ROOT environment variable overrides the search start.
func mustFindProject() string {
	start, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}
	if root := os.Getenv("BIBFOLD_ROOT"); root != "" {
		start = root
	}

	root, err := config.FindProject(start)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return root
}

// mustLoadConfig loads project config or exits.
func mustLoadConfig(root string) *config.Config {
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return cfg
}

// mustOpenDatabase opens the project's entry index or exits.
func mustOpenDatabase(root string) *storage.DB {
	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	db, err := storage.OpenDB(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "opening entry index: %v", err)
	}
	return db
}

// mustParseBibFile reads and parses a BibTeX document or exits.
func mustParseBibFile(path string) []bibtex.Entry {
	data, err := os.ReadFile(path)
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", path, err)
	}
	return bibtex.Parse(string(data))
}

// resolveBibFile picks the document path: an explicit argument wins,
// otherwise the project config decides.
func resolveBibFile(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	root := mustFindProject()
	cfg := mustLoadConfig(root)
	return joinProject(root, cfg.BibFile)
}
