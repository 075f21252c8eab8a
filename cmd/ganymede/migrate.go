package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/audit"
	"mercator-hq/ganymede/pkg/audit/storage"
	"mercator-hq/ganymede/pkg/cli"
	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/pipeline"
	"mercator-hq/ganymede/pkg/sudoers/source"
	"mercator-hq/ganymede/pkg/telemetry/metrics"
	"mercator-hq/ganymede/pkg/validator"
)

var migrateFlags struct {
	sudoersFile string
	fragmentDir string
	prefix      string
	test        bool
	remove      bool
	backup      bool
	format      string
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate sudoers rules into per-principal fragments",
	Long: `Migrate simple ALL-rules from a monolithic sudoers file into
per-principal fragment files under the managed drop-in directory.

Each migrated fragment is validated with the external checker before it is
retained; rejected fragments are deleted. Privileged principals (root,
%wheel) and rules already covered by an existing fragment are skipped.

Examples:
  # Report what would be migrated, with no filesystem effects
  ganymede migrate --test

  # Migrate, leaving the source file untouched
  ganymede migrate

  # Migrate and remove migrated lines from the source file
  ganymede migrate --remove --backup

  # Migrate a staged copy with a different fragment prefix
  ganymede migrate --sudoers-file /srv/stage/sudoers --prefix 20`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().StringVar(&migrateFlags.sudoersFile, "sudoers-file", "", "sudoers file to migrate from (default /etc/sudoers)")
	migrateCmd.Flags().StringVar(&migrateFlags.fragmentDir, "fragment-dir", "", "drop-in directory for fragments (default /etc/sudoers.d)")
	migrateCmd.Flags().StringVar(&migrateFlags.prefix, "prefix", "", "fragment file name prefix (default 10)")
	migrateCmd.Flags().BoolVarP(&migrateFlags.test, "test", "t", false, "report decisions without touching the filesystem")
	migrateCmd.Flags().BoolVarP(&migrateFlags.remove, "remove", "r", false, "remove migrated lines from the source file")
	migrateCmd.Flags().BoolVarP(&migrateFlags.backup, "backup", "b", false, "back up the source file before processing")
	migrateCmd.Flags().StringVar(&migrateFlags.format, "format", "text", "output format: text, json")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyMigrateFlags(cmd, cfg)

	logger, err := setupLogging(cfg)
	if err != nil {
		return err
	}

	ctx := cli.SetupSignalHandler()

	// Test mode leaves the source tree untouched, backups included.
	if cfg.Source.Backup && !migrateFlags.test {
		backupPath, err := source.Backup(cfg.Source.Path)
		if err != nil {
			return cli.NewCommandError("migrate", fmt.Errorf("back up source file: %w", err))
		}
		logger.Info("source file backed up", "path", backupPath)
	}

	pipelineCfg := pipeline.Config{
		SourcePath:      cfg.Source.Path,
		FragmentDir:     cfg.Fragments.Dir,
		Prefix:          cfg.Fragments.Prefix,
		TestMode:        migrateFlags.test,
		RemoveAfterMove: migrateFlags.remove,
	}

	registry := prometheus.NewRegistry()
	migrationMetrics := metrics.NewMigrationMetrics(registry)

	reporters := pipeline.Fanout{
		pipeline.NewLogReporter(logger),
		migrationMetrics,
	}

	recorder, store := openRecorder(ctx, cfg, pipelineCfg, logger)
	if store != nil {
		defer store.Close()
	}
	if recorder != nil {
		reporters = append(reporters, recorder)
	}

	v := validator.NewVisudo(cfg.Validator.Command, cfg.Validator.Timeout, logger)
	p := pipeline.New(pipelineCfg, v, reporters, logger)

	summary, runErr := p.Run(ctx)

	if recorder != nil {
		// Finish the run record even when the run was aborted.
		if err := recorder.Close(context.Background()); err != nil {
			logger.Warn("failed to finish audit run", "error", err)
		}
	}

	if summary != nil {
		if err := printSummary(summary); err != nil {
			return err
		}
		if path := cfg.Telemetry.Metrics.TextfilePath; path != "" {
			if err := metrics.WriteTextfile(registry, path); err != nil {
				logger.Warn("failed to write metrics textfile", "path", path, "error", err)
			}
		}
	}

	if runErr != nil {
		return cli.NewExitError(1, runErr)
	}
	return nil
}

// applyMigrateFlags overrides configuration with flags the user set
// explicitly. Flags always win over file and environment configuration.
func applyMigrateFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("sudoers-file") {
		cfg.Source.Path = migrateFlags.sudoersFile
	}
	if cmd.Flags().Changed("fragment-dir") {
		cfg.Fragments.Dir = migrateFlags.fragmentDir
	}
	if cmd.Flags().Changed("prefix") {
		cfg.Fragments.Prefix = migrateFlags.prefix
	}
	if cmd.Flags().Changed("backup") {
		cfg.Source.Backup = migrateFlags.backup
	}
}

// openRecorder opens audit storage and begins a run record. Auditing is
// best-effort: any failure here logs a warning and the migration proceeds
// without a trail.
func openRecorder(ctx context.Context, cfg *config.Config, pipelineCfg pipeline.Config, logger *slog.Logger) (*audit.Recorder, audit.Storage) {
	if !cfg.Audit.Enabled {
		return nil, nil
	}

	store, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{
		Path:        cfg.Audit.SQLitePath,
		BusyTimeout: cfg.Audit.BusyTimeout,
	})
	if err != nil {
		logger.Warn("audit storage unavailable, continuing without audit trail", "error", err)
		return nil, nil
	}

	recorder := audit.NewRecorder(store, logger)
	if err := recorder.Begin(ctx, pipelineCfg); err != nil {
		logger.Warn("failed to begin audit run, continuing without audit trail", "error", err)
		store.Close()
		return nil, nil
	}
	return recorder, store
}

func printSummary(summary *pipeline.Summary) error {
	if migrateFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(os.Stdout, summary)
	}

	fmt.Printf("Lines read: %d\n", summary.LinesRead)
	fmt.Printf("Rules matched: %d\n", summary.Matched)
	if len(summary.Outcomes) == 0 {
		return nil
	}

	outcomes := make([]string, 0, len(summary.Outcomes))
	for outcome := range summary.Outcomes {
		outcomes = append(outcomes, string(outcome))
	}
	sort.Strings(outcomes)

	fmt.Println("Outcomes:")
	for _, outcome := range outcomes {
		fmt.Printf("  %-28s %d\n", outcome, summary.Outcomes[pipeline.Outcome(outcome)])
	}
	return nil
}
