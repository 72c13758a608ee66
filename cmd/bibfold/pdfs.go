package main

import (
	"github.com/bibfold/bibfold/internal/pdfscan"
	"github.com/spf13/cobra"
)

var pdfsUnmatchedOnly bool

func init() {
	pdfsCmd.Flags().BoolVar(&pdfsUnmatchedOnly, "unmatched", false, "Only report PDFs that matched no entry")
	rootCmd.AddCommand(pdfsCmd)
}

var pdfsCmd = &cobra.Command{
	Use:   "pdfs <dir> [file.bib]",
	Short: "Match PDF files against entries by DOI",
	Long: `Match the PDF files in a directory against a document's entries.

Each PDF's first pages are scanned for a DOI, which is compared with
the entries' doi fields after normalization. PDFs without a detectable
DOI, or whose DOI matches no entry, are reported with an empty key.

Examples:
  bibfold pdfs ~/papers refs.bib
  bibfold pdfs ~/papers --unmatched`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPDFs,
}

func runPDFs(cmd *cobra.Command, args []string) error {
	entries := mustParseBibFile(resolveBibFile(args[1:]))

	matches, err := pdfscan.MatchDir(args[0], entries)
	if err != nil {
		exitWithError(ExitError, "scanning PDFs: %v", err)
	}

	if pdfsUnmatchedOnly {
		var unmatched []pdfscan.Match
		for _, m := range matches {
			if m.Key == "" {
				unmatched = append(unmatched, m)
			}
		}
		matches = unmatched
	}

	if humanOutput {
		if len(matches) == 0 {
			outputHuman("No PDFs to report\n")
			return nil
		}
		for _, m := range matches {
			key := m.Key
			if key == "" {
				key = "(unmatched)"
			}
			outputHuman("  %-24s %s\n", key, m.File)
		}
	} else {
		if matches == nil {
			matches = []pdfscan.Match{}
		}
		outputJSON(matches)
	}

	return nil
}
