package main

import (
	"testing"

	"mercator-hq/ganymede/pkg/config"
)

func TestApplyMigrateFlags(t *testing.T) {
	cfg := config.DefaultConfig()

	migrateFlags.sudoersFile = "/srv/stage/sudoers"
	migrateFlags.prefix = "20"
	migrateFlags.backup = true
	if err := migrateCmd.Flags().Set("sudoers-file", migrateFlags.sudoersFile); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}
	if err := migrateCmd.Flags().Set("prefix", migrateFlags.prefix); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}
	if err := migrateCmd.Flags().Set("backup", "true"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	applyMigrateFlags(migrateCmd, cfg)

	if cfg.Source.Path != "/srv/stage/sudoers" {
		t.Errorf("Source.Path = %q, flag override lost", cfg.Source.Path)
	}
	if cfg.Fragments.Prefix != "20" {
		t.Errorf("Fragments.Prefix = %q, flag override lost", cfg.Fragments.Prefix)
	}
	if !cfg.Source.Backup {
		t.Error("Source.Backup = false, flag override lost")
	}

	// Flags the user never touched leave configuration alone.
	if cfg.Fragments.Dir != config.DefaultFragmentDir {
		t.Errorf("Fragments.Dir = %q, unset flag should not override", cfg.Fragments.Dir)
	}
}
