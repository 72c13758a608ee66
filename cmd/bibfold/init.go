package main

import (
	"os"

	"github.com/bibfold/bibfold/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new bibfold project",
	Long: `Initialize a new bibfold project in the current directory.

Creates:
  .bibfold/
  ├── config.yml      # Default config
  └── cache/          # Entry index (safe to delete, rebuilt on demand)`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	if config.IsProject(root) {
		exitWithError(ExitError, "directory already contains a bibfold project")
	}

	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating .bibfold directory: %v", err)
	}

	openYears := config.DefaultOpenYears
	cfg := &config.Config{
		BibFile:   config.DefaultBibFile,
		OutDir:    config.DefaultOutDir,
		Title:     config.DefaultTitle,
		OpenYears: &openYears,
	}
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "creating config.yml: %v", err)
	}

	if humanOutput {
		outputHuman("Initialized bibfold project in %s\n", root)
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: root})
	}

	return nil
}
