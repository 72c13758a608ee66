package main

import (
	"github.com/bibfold/bibfold/internal/bibtex"
	"github.com/spf13/cobra"
)

var listLimit int

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum entries to show (0 = all)")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list [file.bib]",
	Short: "List the entries in a BibTeX document",
	Long: `List the entries in a BibTeX document, in document order.

Parses the document directly; no index is required.

Examples:
  bibfold list refs.bib
  bibfold list refs.bib --limit 20 --human`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	entries := mustParseBibFile(resolveBibFile(args))

	total := len(entries)
	if listLimit > 0 && listLimit < len(entries) {
		entries = entries[:listLimit]
	}

	if humanOutput {
		if total == 0 {
			outputHuman("No entries found\n")
			return nil
		}
		if len(entries) < total {
			outputHuman("%d entries (showing first %d):\n\n", total, len(entries))
		} else {
			outputHuman("%d entries:\n\n", total)
		}
		printEntriesHuman(entries, ListTitleMaxLen)
	} else {
		if entries == nil {
			entries = []bibtex.Entry{}
		}
		outputJSON(entries)
	}

	return nil
}
