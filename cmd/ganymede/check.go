package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/cli"
	"mercator-hq/ganymede/pkg/validator"
)

var checkFlags struct {
	file      string
	fragments bool
	format    string
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate sudoers files without migrating",
	Long: `Validate the sudoers source file and/or the managed fragments with
the external syntax checker, without migrating anything.

Examples:
  # Check the configured source file
  ganymede check

  # Check a specific file
  ganymede check --file /srv/stage/sudoers

  # Check the source file and every fragment in the drop-in directory
  ganymede check --fragments

  # JSON output for CI/CD
  ganymede check --fragments --format json`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFlags.file, "file", "f", "", "file to check (default: configured source file)")
	checkCmd.Flags().BoolVar(&checkFlags.fragments, "fragments", false, "also check every fragment in the drop-in directory")
	checkCmd.Flags().StringVar(&checkFlags.format, "format", "text", "output format: text, json")
}

// CheckResult is the check outcome for a single file.
type CheckResult struct {
	File  string `json:"file"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := setupLogging(cfg)
	if err != nil {
		return err
	}

	files := []string{cfg.Source.Path}
	if checkFlags.file != "" {
		files = []string{checkFlags.file}
	}
	if checkFlags.fragments {
		fragmentFiles, err := listFragmentFiles(cfg.Fragments.Dir)
		if err != nil {
			return cli.NewCommandError("check", err)
		}
		files = append(files, fragmentFiles...)
	}

	ctx := cli.SetupSignalHandler()
	v := validator.NewVisudo(cfg.Validator.Command, cfg.Validator.Timeout, logger)
	results := checkFiles(ctx, v, files)

	invalid := 0
	for _, result := range results {
		if !result.Valid {
			invalid++
		}
	}

	if checkFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		if err := formatter.FormatTo(os.Stdout, results); err != nil {
			return err
		}
	} else {
		printCheckResults(results, invalid)
	}

	if invalid > 0 {
		return cli.NewExitError(1, fmt.Errorf("%d invalid file(s)", invalid))
	}
	return nil
}

// checkFiles runs the validator over each file in order.
func checkFiles(ctx context.Context, v validator.Validator, files []string) []CheckResult {
	results := make([]CheckResult, 0, len(files))
	for _, file := range files {
		result := CheckResult{File: file, Valid: true}
		if err := v.Check(ctx, file); err != nil {
			result.Valid = false
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return results
}

// listFragmentFiles returns the regular files in the drop-in directory.
// Names containing a dot are skipped, since sudo ignores them.
func listFragmentFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list fragment directory %q: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.Contains(entry.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

func printCheckResults(results []CheckResult, invalid int) {
	for _, result := range results {
		if result.Valid {
			fmt.Printf("✓ %s\n", result.File)
			continue
		}
		fmt.Printf("✗ %s: %s\n", result.File, result.Error)
	}
	fmt.Printf("\nSummary: %d file(s) checked, %d invalid\n", len(results), invalid)
}
