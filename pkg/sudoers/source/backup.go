package source

import (
	"fmt"
	"io"
	"os"
	"time"
)

// backupTimeFormat produces the YYYYMMDD_HHMMSS stamp used in backup names.
const backupTimeFormat = "20060102_150405"

// Backup copies the sudoers file to a timestamped sibling path,
// {path}_{YYYYMMDD_HHMMSS}.bak, preserving the original's mode and
// modification time. It returns the backup path. The backup is created
// exclusively; an already-present backup from the same second is an error
// rather than an overwrite.
func Backup(path string) (string, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open source file %q: %w", path, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", fmt.Errorf("stat source file %q: %w", path, err)
	}

	backupPath := fmt.Sprintf("%s_%s.bak", path, time.Now().Format(backupTimeFormat))
	out, err := os.OpenFile(backupPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return "", fmt.Errorf("create backup file %q: %w", backupPath, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(backupPath)
		return "", fmt.Errorf("copy to backup file %q: %w", backupPath, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(backupPath)
		return "", fmt.Errorf("close backup file %q: %w", backupPath, err)
	}

	if err := os.Chtimes(backupPath, time.Now(), info.ModTime()); err != nil {
		return "", fmt.Errorf("set times on backup file %q: %w", backupPath, err)
	}
	return backupPath, nil
}
