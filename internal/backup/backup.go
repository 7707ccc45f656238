package backup

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/caltrack/internal/constants"
	"github.com/julianstephens/caltrack/internal/logger"
	"github.com/julianstephens/caltrack/internal/storage"
	"github.com/julianstephens/caltrack/internal/storage/sqlite"
)

const timestampFormat = "20060102-150405"

// Kind describes how a backup captures the store
type Kind string

const (
	// KindSQLite copies the database with VACUUM INTO
	KindSQLite Kind = "sqlite"
	// KindJSONFile copies the JSON store file
	KindJSONFile Kind = "json"
	// KindSnapshot exports every key of a server backend into a JSON file
	KindSnapshot Kind = "snapshot"
)

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64

	seq int
}

// Manager creates, lists and restores backups of one provider
type Manager struct {
	provider  storage.Provider
	namespace string
	kind      Kind
	dataPath  string
	backupDir string
	keep      int
	now       func() time.Time
}

// NewManager picks the backup kind from the provider type. File stores keep
// backups next to their data file, server backends under configDir.
// Snapshots only cover keys under namespace; file backups copy the whole file.
func NewManager(provider storage.Provider, configDir, namespace string) *Manager {
	m := &Manager{
		provider:  provider,
		namespace: namespace,
		keep:      constants.MaxBackups,
		now:       time.Now,
	}

	switch provider.(type) {
	case *sqlite.Store:
		m.kind = KindSQLite
		m.dataPath = provider.GetConfigPath()
	case *storage.JSONStore:
		m.kind = KindJSONFile
		m.dataPath = provider.GetConfigPath()
	default:
		m.kind = KindSnapshot
	}

	if m.dataPath != "" {
		m.backupDir = filepath.Join(filepath.Dir(m.dataPath), constants.BackupDirName)
	} else {
		m.backupDir = filepath.Join(configDir, constants.BackupDirName)
	}
	return m
}

func (m *Manager) Kind() Kind {
	return m.kind
}

func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func (m *Manager) suffix() string {
	if m.kind == KindSQLite {
		return ".db"
	}
	return ".json"
}

// CreateBackup writes a new backup and prunes the oldest beyond the limit
func (m *Manager) CreateBackup() (string, error) {
	path, err := m.createBackup()
	if err != nil {
		return "", err
	}
	if err := m.rotateBackups(); err != nil {
		logger.Warn("failed to rotate old backups", "error", err)
	}
	return path, nil
}

func (m *Manager) createBackup() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	dest, err := m.nextPath()
	if err != nil {
		return "", err
	}

	switch m.kind {
	case KindSQLite:
		err = m.backupSQLite(dest)
	case KindJSONFile:
		err = m.backupJSONFile(dest)
	default:
		err = m.exportSnapshot(dest)
	}
	if err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("failed to back up %s store: %w", m.kind, err)
	}

	logger.Info("backup created", "path", dest, "kind", m.kind)
	return dest, nil
}

func (m *Manager) nextPath() (string, error) {
	stamp := m.now().Format(timestampFormat)
	path := filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+m.suffix())
	for counter := 1; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if counter > 100 {
			return "", errors.New("failed to generate unique backup filename")
		}
		path = filepath.Join(m.backupDir, fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, stamp, counter, m.suffix()))
	}
}

func (m *Manager) backupSQLite(dest string) error {
	if _, err := os.Stat(m.dataPath); os.IsNotExist(err) {
		return fmt.Errorf("database does not exist: %s", m.dataPath)
	}

	db, err := sql.Open("sqlite", m.dataPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	if err := verifySQLiteDB(db); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := db.Exec("VACUUM INTO ?", dest); err != nil {
		return fmt.Errorf("VACUUM INTO failed: %w", err)
	}
	return nil
}

func (m *Manager) backupJSONFile(dest string) error {
	if _, err := os.Stat(m.dataPath); os.IsNotExist(err) {
		return fmt.Errorf("store file does not exist: %s", m.dataPath)
	}
	if _, err := readSnapshot(m.dataPath); err != nil {
		return fmt.Errorf("source store appears to be corrupted: %w", err)
	}
	return copyFile(m.dataPath, dest)
}

func (m *Manager) exportSnapshot(dest string) error {
	keys, err := m.provider.Keys(m.namespace)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	items := make(map[string]string, len(keys))
	for _, key := range keys {
		value, found, err := m.provider.GetItem(key)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		if found {
			items[key] = value
		}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return os.WriteFile(dest, data, 0600)
}

// ListBackups returns the backups of this manager's kind, newest first
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, m.suffix()) {
			continue
		}

		ts, seq, ok := parseTimestamp(strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), m.suffix()))
		if !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, name),
			Timestamp: ts,
			Size:      info.Size(),
			seq:       seq,
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].seq > backups[j].seq
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseTimestamp accepts "YYYYMMDD-HHMMSS" with an optional "-N" counter
func parseTimestamp(s string) (time.Time, int, bool) {
	seq := 0
	parts := strings.Split(s, "-")
	if len(parts) == 3 {
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			return time.Time{}, 0, false
		}
		seq = n
		s = parts[0] + "-" + parts[1]
	}
	ts, err := time.Parse(timestampFormat, s)
	if err != nil {
		return time.Time{}, 0, false
	}
	return ts, seq, true
}

func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}

	for i := m.keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
		logger.Debug("removed old backup", "path", backups[i].Path)
	}
	return nil
}

// RestoreBackup replaces the store contents with backupPath. The current
// contents are backed up first; that copy is not subject to rotation.
// The provider is reloaded afterwards.
func (m *Manager) RestoreBackup(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := m.verifyBackup(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var safety string
	if m.kind == KindSnapshot || fileExists(m.dataPath) {
		var err error
		safety, err = m.createBackup()
		if err != nil {
			return "", fmt.Errorf("failed to back up current store before restore: %w", err)
		}
	}

	if m.kind == KindSnapshot {
		return safety, m.importSnapshot(backupPath)
	}

	if err := m.provider.Close(); err != nil {
		logger.Warn("failed to close store before restore", "error", err)
	}

	tmp := m.dataPath + ".restore.tmp"
	if err := copyFile(backupPath, tmp); err != nil {
		return safety, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dataPath); err != nil {
		if removeErr := os.Remove(tmp); removeErr != nil {
			logger.Warn("failed to remove temporary file", "path", tmp, "error", removeErr)
		}
		return safety, fmt.Errorf("failed to restore store: %w", err)
	}

	if err := m.provider.Load(); err != nil {
		return safety, fmt.Errorf("failed to reload restored store: %w", err)
	}
	return safety, nil
}

func (m *Manager) importSnapshot(path string) error {
	items, err := readSnapshot(path)
	if err != nil {
		return err
	}

	for key := range items {
		if !strings.HasPrefix(key, m.namespace) {
			return fmt.Errorf("snapshot key %q is outside namespace %q", key, m.namespace)
		}
	}

	existing, err := m.provider.Keys(m.namespace)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	var errs []error
	for _, key := range existing {
		if _, keep := items[key]; keep {
			continue
		}
		if err := m.provider.RemoveItem(key); err != nil {
			errs = append(errs, err)
		}
	}
	for key, value := range items {
		if err := m.provider.SetItem(key, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) verifyBackup(path string) error {
	if m.kind != KindSQLite {
		_, err := readSnapshot(path)
		return err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()
	return verifySQLiteDB(db)
}

func verifySQLiteDB(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return err
	}
	return db.QueryRow("SELECT COUNT(*) FROM kv").Scan(&count)
}

// readSnapshot parses a key to value JSON object, the format shared by
// snapshots and the JSON store file.
func readSnapshot(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	items := make(map[string]string)
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("not a key/value document: %w", err)
	}
	return items, nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
