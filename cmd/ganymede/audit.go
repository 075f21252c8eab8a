package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/audit"
	"mercator-hq/ganymede/pkg/audit/retention"
	"mercator-hq/ganymede/pkg/audit/storage"
	"mercator-hq/ganymede/pkg/cli"
	"mercator-hq/ganymede/pkg/config"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect and maintain the audit trail",
	Long: `Inspect and maintain the audit trail of migration runs.

Every migration run and per-line decision is recorded in a SQLite database.
The audit subcommands query that database and enforce retention.`,
}

var auditRunsFlags struct {
	limit  int
	format string
}

var auditRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded migration runs",
	Long: `List recorded migration runs, most recent first.

Examples:
  ganymede audit runs
  ganymede audit runs --limit 5 --format json`,
	RunE: runAuditRuns,
}

var auditDecisionsFlags struct {
	runID     string
	principal string
	outcome   string
	limit     int
	format    string
}

var auditDecisionsCmd = &cobra.Command{
	Use:   "decisions",
	Short: "List recorded per-line decisions",
	Long: `List recorded per-line decisions, optionally filtered by run,
principal, or outcome.

Examples:
  ganymede audit decisions --run-id 6b3a...
  ganymede audit decisions --principal %admins
  ganymede audit decisions --outcome validation-failed-deleted --format json`,
	RunE: runAuditDecisions,
}

var auditPruneFlags struct {
	retentionDays int
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs older than the retention window",
	Long: `Delete audit runs (and their decisions) older than the retention
window. Typically run from an OS-level timer.

Examples:
  ganymede audit prune
  ganymede audit prune --retention-days 30`,
	RunE: runAuditPrune,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditRunsCmd)
	auditCmd.AddCommand(auditDecisionsCmd)
	auditCmd.AddCommand(auditPruneCmd)

	auditRunsCmd.Flags().IntVar(&auditRunsFlags.limit, "limit", 20, "maximum runs to list (0 = no limit)")
	auditRunsCmd.Flags().StringVar(&auditRunsFlags.format, "format", "text", "output format: text, json")

	auditDecisionsCmd.Flags().StringVar(&auditDecisionsFlags.runID, "run-id", "", "restrict to one run")
	auditDecisionsCmd.Flags().StringVar(&auditDecisionsFlags.principal, "principal", "", "restrict to one principal (group marker included)")
	auditDecisionsCmd.Flags().StringVar(&auditDecisionsFlags.outcome, "outcome", "", "restrict to one outcome")
	auditDecisionsCmd.Flags().IntVar(&auditDecisionsFlags.limit, "limit", 100, "maximum decisions to list (0 = no limit)")
	auditDecisionsCmd.Flags().StringVar(&auditDecisionsFlags.format, "format", "text", "output format: text, json")

	auditPruneCmd.Flags().IntVar(&auditPruneFlags.retentionDays, "retention-days", 0, "override the configured retention window")
}

// openAuditStorage opens the configured audit database.
func openAuditStorage(cfg *config.Config) (audit.Storage, error) {
	store, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{
		Path:        cfg.Audit.SQLitePath,
		BusyTimeout: cfg.Audit.BusyTimeout,
	})
	if err != nil {
		return nil, cli.NewCommandError("audit", err)
	}
	return store, nil
}

func runAuditRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := setupLogging(cfg); err != nil {
		return err
	}

	store, err := openAuditStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cli.SetupSignalHandler()
	runs, err := store.Runs(ctx, auditRunsFlags.limit)
	if err != nil {
		return cli.NewCommandError("audit runs", err)
	}

	if auditRunsFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(os.Stdout, runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}
	for _, run := range runs {
		finished := "in flight"
		if !run.FinishedAt.IsZero() {
			finished = run.FinishedAt.Format("2006-01-02 15:04:05")
		}
		mode := "migrate"
		if run.TestMode {
			mode = "test"
		}
		fmt.Printf("%s  started %s  finished %s  %s  source %s  decisions %d\n",
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			finished,
			mode,
			run.SourcePath,
			run.Decisions,
		)
	}
	return nil
}

func runAuditDecisions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := setupLogging(cfg); err != nil {
		return err
	}

	store, err := openAuditStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cli.SetupSignalHandler()
	decisions, err := store.Decisions(ctx, &audit.Query{
		RunID:     auditDecisionsFlags.runID,
		Principal: auditDecisionsFlags.principal,
		Outcome:   auditDecisionsFlags.outcome,
		Limit:     auditDecisionsFlags.limit,
	})
	if err != nil {
		return cli.NewCommandError("audit decisions", err)
	}

	if auditDecisionsFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(os.Stdout, decisions)
	}

	if len(decisions) == 0 {
		fmt.Println("No decisions recorded.")
		return nil
	}
	for _, d := range decisions {
		fmt.Printf("run %s  line %-4d  %-20s %-26s", d.RunID, d.Line, d.Principal, d.Outcome)
		if d.Fragment != "" {
			fmt.Printf("  %s", d.Fragment)
		}
		if d.Reason != "" {
			fmt.Printf("  (%s)", d.Reason)
		}
		fmt.Println()
	}
	return nil
}

func runAuditPrune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := setupLogging(cfg); err != nil {
		return err
	}

	retentionDays := cfg.Audit.RetentionDays
	if cmd.Flags().Changed("retention-days") {
		retentionDays = auditPruneFlags.retentionDays
	}

	store, err := openAuditStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cli.SetupSignalHandler()
	pruner := retention.NewPruner(store, &retention.Config{RetentionDays: retentionDays})
	deleted, err := pruner.Prune(ctx)
	if err != nil {
		return cli.NewCommandError("audit prune", err)
	}

	fmt.Printf("Pruned %d run(s).\n", deleted)
	return nil
}
