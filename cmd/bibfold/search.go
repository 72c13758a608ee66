package main

import (
	"github.com/bibfold/bibfold/internal/bibtex"
	"github.com/spf13/cobra"
)

var searchLimit int

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search indexed entries by keyword",
	Long: `Search the entry index by keyword.

Matches against citation keys, titles, authors, venues, and years.
Run "bibfold index" first to build the index.

Examples:
  bibfold search perovskite
  bibfold search "hydrogen production" --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	root := mustFindProject()
	db := mustOpenDatabase(root)
	defer db.Close()

	entries, err := db.Search(args[0], searchLimit)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	// Empty result is not an error
	if humanOutput {
		if len(entries) == 0 {
			outputHuman("No matches\n")
			return nil
		}
		outputHuman("%d match(es):\n\n", len(entries))
		printEntriesHuman(entries, SearchTitleMaxLen)
	} else {
		if entries == nil {
			entries = []bibtex.Entry{}
		}
		outputJSON(entries)
	}

	return nil
}
