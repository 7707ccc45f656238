package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/julianstephens/caltrack/internal/cli"
	"github.com/julianstephens/caltrack/internal/cli/backups"
	"github.com/julianstephens/caltrack/internal/cli/foods"
	"github.com/julianstephens/caltrack/internal/cli/records"
	"github.com/julianstephens/caltrack/internal/cli/system"
	"github.com/julianstephens/caltrack/internal/cli/users"
	"github.com/julianstephens/caltrack/internal/config"
	"github.com/julianstephens/caltrack/internal/constants"
	"github.com/julianstephens/caltrack/internal/errors"
	"github.com/julianstephens/caltrack/internal/logger"
	"github.com/julianstephens/caltrack/internal/storage"
)

var CLI struct {
	Version   kong.VersionFlag
	Backend   string `help:"Storage backend: json, sqlite, postgres, redis or memory. Inferred from --config when empty." env:"CALTRACK_BACKEND"`
	Config    string `help:"Data file path, or a PostgreSQL/Redis connection string without a password. Passwords belong in the OS keyring or CALTRACK_DB_CONNECTION." env:"CALTRACK_CONFIG"`
	Namespace string `help:"Prefix for every stored key." env:"CALTRACK_NAMESPACE" default:"${namespace}"`
	Debug     bool   `help:"Log debug output to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize caltrack storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`

	User    users.UserCmd      `cmd:"" help:"Sign in, sign out and manage profiles."`
	Log     records.LogCmd     `cmd:"" help:"Log a food for the active user."`
	Day     records.DayCmd     `cmd:"" help:"Show what was logged on a day." default:"1"`
	History records.HistoryCmd `cmd:"" help:"Show recent daily totals."`
	Food    foods.FoodCmd      `cmd:"" help:"Browse the catalog and manage custom foods."`
	Clear   system.ClearCmd    `cmd:"" help:"Erase all users and records."`
	Backup  backups.BackupCmd  `cmd:"" help:"Manage backups."`
	Keyring system.ConfigCmd   `cmd:"" name:"config" help:"Manage connection strings in the OS keyring."`
}

func main() {
	// .env must be loaded before kong reads env-backed flags
	if err := config.LoadEnv(); err != nil {
		errors.Fatal(err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Calorie tracker with a local document store"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":   constants.Version,
			"namespace": constants.DefaultNamespace,
		},
	)

	opts := config.Options{
		Backend:   constants.BackendKind(strings.ToLower(CLI.Backend)),
		Config:    CLI.Config,
		Namespace: CLI.Namespace,
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: config.ConfigDir(opts)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	command := ctx.Command()
	var provider storage.Provider
	if strings.HasPrefix(command, "config") {
		// keyring commands must work before any backend is reachable
		provider = storage.NewMemoryStore()
	} else {
		var err error
		provider, err = config.NewProvider(opts)
		if err != nil {
			errors.Fatal(err)
		}
	}
	defer provider.Close()

	if command != "init" && command != "doctor" {
		if err := provider.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	appCtx := cli.NewContext(provider, opts)
	appCtx.Interactive = isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())

	if err := ctx.Run(appCtx); err != nil {
		provider.Close()
		errors.Fatal(err)
	}
}
