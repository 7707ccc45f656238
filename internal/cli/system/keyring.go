package system

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/julianstephens/caltrack/internal/cli"
	"github.com/julianstephens/caltrack/internal/constants"
	"github.com/julianstephens/caltrack/internal/keyring"
	"github.com/julianstephens/caltrack/internal/storage/postgres"
	"github.com/julianstephens/caltrack/internal/storage/redis"
)

// SetConnectionCmd stores a backend connection string in the OS keyring
type SetConnectionCmd struct {
	Backend          string `arg:"" help:"Backend (postgres or redis)."`
	ConnectionString string `arg:"" help:"Connection string to store."`
}

func (cmd *SetConnectionCmd) Run(ctx *cli.Context) error {
	backend := constants.BackendKind(strings.ToLower(cmd.Backend))
	switch backend {
	case constants.BackendPostgres:
		if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			ctx.Warn("Connection string contains a password; it is stored as-is in the OS keyring.")
		}
	case constants.BackendRedis:
		if !redis.IsConnString(cmd.ConnectionString) {
			return fmt.Errorf("connection string must be a redis:// or rediss:// URL")
		}
	}

	if err := keyring.SetConnectionString(backend, cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	ctx.Success("Connection string for %s stored in OS keyring", backend)
	return nil
}

type GetConnectionCmd struct {
	Backend string `arg:"" help:"Backend (postgres or redis)."`
}

func (cmd *GetConnectionCmd) Run(ctx *cli.Context) error {
	backend := constants.BackendKind(strings.ToLower(cmd.Backend))
	connStr, err := keyring.GetConnectionString(backend)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no connection string for %s in keyring, use 'caltrack config set-connection'", backend)
		}
		return fmt.Errorf("failed to retrieve connection string from keyring: %w", err)
	}

	ctx.Println(maskPassword(connStr))
	return nil
}

type DeleteConnectionCmd struct {
	Backend string `arg:"" help:"Backend (postgres or redis)."`
}

func (cmd *DeleteConnectionCmd) Run(ctx *cli.Context) error {
	backend := constants.BackendKind(strings.ToLower(cmd.Backend))
	if err := keyring.DeleteConnectionString(backend); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no connection string for %s in keyring", backend)
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}

	ctx.Success("Connection string for %s deleted from OS keyring", backend)
	return nil
}

// maskPassword hides passwords in URL and DSN connection strings
func maskPassword(connStr string) string {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" && u.User != nil {
		if _, ok := u.User.Password(); ok {
			return strings.Replace(u.Redacted(), "xxxxx", "****", 1)
		}
		return connStr
	}

	if !strings.Contains(connStr, "password=") {
		return connStr
	}
	parts := strings.Fields(connStr)
	for i, part := range parts {
		if strings.HasPrefix(part, "password=") {
			parts[i] = "password=****"
		}
	}
	return strings.Join(parts, " ")
}

type ConfigCmd struct {
	SetConnection    SetConnectionCmd    `cmd:"" help:"Store a connection string in the OS keyring."`
	GetConnection    GetConnectionCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
	DeleteConnection DeleteConnectionCmd `cmd:"" help:"Remove the stored connection string."`
}
