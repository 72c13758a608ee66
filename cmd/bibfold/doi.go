package main

import (
	"fmt"
	"os"

	"github.com/bibfold/bibfold/internal/config"
	"github.com/bibfold/bibfold/internal/doi"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	doiAppend string
	doiMailto string
)

func init() {
	doiCmd.Flags().StringVar(&doiAppend, "append", "", "Append the fetched BibTeX to this file instead of printing")
	doiCmd.Flags().StringVar(&doiMailto, "mailto", "", "Contact address for the resolver's polite pool (default: config or BIBFOLD_MAILTO)")
	rootCmd.AddCommand(doiCmd)
}

var doiCmd = &cobra.Command{
	Use:   "doi <doi>...",
	Short: "Fetch BibTeX records for DOIs",
	Long: `Fetch BibTeX records for one or more DOIs from the doi.org resolver.

Records print to stdout by default; --append adds them to a .bib file.
Requests are rate limited. Set a contact address (--mailto, the
project config, or BIBFOLD_MAILTO in the environment or a .env file)
to be routed into the resolver's polite pool.

Examples:
  bibfold doi 10.1038/s41578-019-0080-9
  bibfold doi 10.1021/cr300459q --append refs.bib`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDOI,
}

// DOIResult reports one fetched record.
type DOIResult struct {
	DOI    string `json:"doi"`
	Status string `json:"status"` // fetched, not_found, error
	BibTeX string `json:"bibtex,omitempty"`
	Error  string `json:"error,omitempty"`
}

func runDOI(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	mailto := doiMailto
	if mailto == "" {
		mailto = os.Getenv("BIBFOLD_MAILTO")
	}
	if mailto == "" {
		if start, err := os.Getwd(); err == nil {
			if root, err := config.FindProject(start); err == nil {
				mailto = mustLoadConfig(root).Mailto
			}
		}
	}

	client := doi.NewClient(doi.WithMailto(mailto))

	var results []DOIResult
	failures := 0
	for _, d := range args {
		bib, err := client.FetchBibTeX(cmd.Context(), d)
		switch {
		case err == nil:
			results = append(results, DOIResult{DOI: d, Status: "fetched", BibTeX: bib})
		case doi.IsNotFound(err):
			failures++
			results = append(results, DOIResult{DOI: d, Status: "not_found", Error: err.Error()})
		default:
			failures++
			results = append(results, DOIResult{DOI: d, Status: "error", Error: err.Error()})
		}
	}

	for _, r := range results {
		if r.Status != "fetched" {
			continue
		}
		if doiAppend != "" {
			if err := appendToBibFile(doiAppend, r.BibTeX); err != nil {
				exitWithError(ExitError, "appending to %s: %v", doiAppend, err)
			}
		} else if humanOutput {
			outputHuman("%s\n", r.BibTeX)
		}
	}

	if humanOutput {
		for _, r := range results {
			if r.Status != "fetched" {
				fmt.Fprintf(os.Stderr, "warning: %s: %s\n", r.DOI, r.Error)
			}
		}
		if doiAppend != "" {
			outputHuman("Appended %d record(s) to %s\n", len(results)-failures, doiAppend)
		}
	} else {
		outputJSON(results)
	}

	if failures == len(args) {
		os.Exit(ExitDataError)
	}
	return nil
}

// appendToBibFile appends BibTeX content to a file, creating it if
// needed and always starting on a new line.
func appendToBibFile(path, content string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString("\n" + content)
	return err
}
