package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/caltrack/internal/constants"
)

var (
	// ErrNotFound is returned when no connection string is stored for a backend
	ErrNotFound = errors.New("connection string not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be reached
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	// ErrUnsupportedBackend is returned for backends that take a file path
	ErrUnsupportedBackend = errors.New("backend does not use a stored connection string")
)

// account returns the keyring user under which backend's secret lives.
// Only remote backends keep secrets in the keyring.
func account(backend constants.BackendKind) (string, error) {
	switch backend {
	case constants.BackendPostgres, constants.BackendRedis:
		return string(backend) + "-" + constants.DefaultKeyringUser, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedBackend, backend)
	}
}

// GetConnectionString returns the stored connection string for backend
func GetConnectionString(backend constants.BackendKind) (string, error) {
	user, err := account(backend)
	if err != nil {
		return "", err
	}

	connStr, err := keyring.Get(constants.AppName, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

func SetConnectionString(backend constants.BackendKind, connStr string) error {
	user, err := account(backend)
	if err != nil {
		return err
	}
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}

	if err := keyring.Set(constants.AppName, user, connStr); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}
	return nil
}

func DeleteConnectionString(backend constants.BackendKind) error {
	user, err := account(backend)
	if err != nil {
		return err
	}

	if err := keyring.Delete(constants.AppName, user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	return nil
}

// IsAvailable is a best-effort probe: a read that fails with anything other
// than "not found" means there is no usable keyring.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
