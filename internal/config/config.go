package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/julianstephens/caltrack/internal/constants"
	"github.com/julianstephens/caltrack/internal/docstore"
	"github.com/julianstephens/caltrack/internal/keyring"
	"github.com/julianstephens/caltrack/internal/logger"
	"github.com/julianstephens/caltrack/internal/storage"
	"github.com/julianstephens/caltrack/internal/storage/postgres"
	"github.com/julianstephens/caltrack/internal/storage/redis"
	"github.com/julianstephens/caltrack/internal/storage/sqlite"
)

// ErrUnknownBackend is returned for a backend name outside constants.Backends
var ErrUnknownBackend = errors.New("unknown storage backend")

// Options are the user-facing storage settings, usually filled from flags
// and environment variables.
type Options struct {
	Backend          constants.BackendKind
	Config           string // file path or connection string
	Namespace        string
	EraseCustomFoods bool
}

// LoadEnv loads variables from the given .env files (default ".env") without
// overriding ones already set. Missing files are ignored.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
		logger.Debug("loaded environment file", "path", p)
	}
	return nil
}

// ExpandPath replaces a leading ~ with the user's home directory
func ExpandPath(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// ResolveBackend returns the explicit backend, or infers one from the config
// value: URLs select their server backend, *.json selects the JSON file store
// and anything else is a SQLite path.
func ResolveBackend(opts Options) (constants.BackendKind, error) {
	if opts.Backend != "" {
		for _, known := range constants.Backends {
			if opts.Backend == known {
				return known, nil
			}
		}
		return "", fmt.Errorf("%w: %s", ErrUnknownBackend, opts.Backend)
	}

	switch {
	case postgres.IsConnString(opts.Config):
		return constants.BackendPostgres, nil
	case redis.IsConnString(opts.Config):
		return constants.BackendRedis, nil
	case strings.HasSuffix(strings.ToLower(opts.Config), ".json"):
		return constants.BackendJSON, nil
	default:
		return constants.BackendSQLite, nil
	}
}

// DefaultPath returns the default file location of a file-backed store
func DefaultPath(backend constants.BackendKind) string {
	if backend == constants.BackendJSON {
		return strings.TrimSuffix(constants.DefaultConfigPath, filepath.Ext(constants.DefaultConfigPath)) + ".json"
	}
	return constants.DefaultConfigPath
}

// ConnectionString picks the connection string of a remote backend. A value
// given directly must not carry a password; otherwise CALTRACK_DB_CONNECTION
// wins over the keyring.
func ConnectionString(backend constants.BackendKind, given string) (string, error) {
	if given != "" && (postgres.IsConnString(given) || redis.IsConnString(given) || backend == constants.BackendPostgres) {
		if err := checkNoSecret(backend, given); err != nil {
			return "", err
		}
		return given, nil
	}

	if env := os.Getenv(constants.EnvDBConnection); env != "" {
		logger.Debug("using connection string from environment", "backend", backend)
		return env, nil
	}

	connStr, err := keyring.GetConnectionString(backend)
	if err != nil {
		return "", fmt.Errorf("no %s connection string configured: %w", backend, err)
	}
	logger.Debug("using connection string from keyring", "backend", backend)
	return connStr, nil
}

func checkNoSecret(backend constants.BackendKind, connStr string) error {
	switch backend {
	case constants.BackendPostgres:
		if _, err := postgres.ValidateConnString(connStr); err != nil {
			return err
		}
	case constants.BackendRedis:
		if redis.HasEmbeddedPassword(connStr) {
			return fmt.Errorf("redis URL must not contain a password: %w", postgres.ErrEmbeddedCredentials)
		}
	}
	return nil
}

// NewProvider builds the storage provider described by opts. The provider
// is neither initialized nor loaded.
func NewProvider(opts Options) (storage.Provider, error) {
	backend, err := ResolveBackend(opts)
	if err != nil {
		return nil, err
	}

	switch backend {
	case constants.BackendMemory:
		return storage.NewMemoryStore(), nil
	case constants.BackendJSON, constants.BackendSQLite:
		path := opts.Config
		if path == "" || postgres.IsConnString(path) || redis.IsConnString(path) {
			path = DefaultPath(backend)
		}
		path, err = ExpandPath(path)
		if err != nil {
			return nil, err
		}
		if backend == constants.BackendJSON {
			return storage.NewJSONStore(path), nil
		}
		return sqlite.NewStore(path), nil
	case constants.BackendPostgres:
		connStr, err := ConnectionString(backend, opts.Config)
		if err != nil {
			return nil, err
		}
		return postgres.New(connStr), nil
	case constants.BackendRedis:
		connStr, err := ConnectionString(backend, opts.Config)
		if err != nil {
			return nil, err
		}
		return redis.New(connStr)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, backend)
	}
}

// StoreOptions converts opts into docstore options
func (opts Options) StoreOptions() []docstore.Option {
	var out []docstore.Option
	if opts.Namespace != "" {
		out = append(out, docstore.WithNamespace(opts.Namespace))
	}
	if opts.EraseCustomFoods {
		out = append(out, docstore.WithEraseCustomFoods(true))
	}
	return out
}

// ConfigDir returns the directory holding logs and backups. File-backed
// stores keep them next to the data file.
func ConfigDir(opts Options) string {
	backend, err := ResolveBackend(opts)
	if err == nil && (backend == constants.BackendJSON || backend == constants.BackendSQLite) {
		path := opts.Config
		if path == "" {
			path = DefaultPath(backend)
		}
		if expanded, err := ExpandPath(path); err == nil {
			return filepath.Dir(expanded)
		}
	}

	dir, err := ExpandPath(constants.DefaultConfigDir)
	if err != nil {
		return filepath.Join(os.TempDir(), constants.AppName)
	}
	return dir
}
