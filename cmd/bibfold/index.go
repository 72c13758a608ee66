package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index [file.bib]",
	Short: "Rebuild the entry index from a BibTeX document",
	Long: `Rebuild the project's SQLite entry index from a BibTeX document.

The index is an ephemeral cache used by the search command; the .bib
document stays the source of truth. Run index again whenever the
document changes.

Examples:
  bibfold index
  bibfold index refs.bib`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	root := mustFindProject()

	bibPath := resolveBibFile(args)
	entries := mustParseBibFile(bibPath)

	db := mustOpenDatabase(root)
	defer db.Close()

	n, err := db.ReplaceAll(entries)
	if err != nil {
		exitWithError(ExitError, "rebuilding index: %v", err)
	}

	if humanOutput {
		outputHuman("Indexed %d entries from %s\n", n, bibPath)
	} else {
		outputJSON(StatusResponse{Status: "indexed", Path: bibPath, Count: n})
	}

	return nil
}
