package system

import (
	"fmt"

	"github.com/julianstephens/caltrack/internal/cli"
)

type InitCmd struct{}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if err := ctx.Provider.Init(); err != nil {
		return err
	}
	ctx.Success("Initialized %s storage at: %s", ctx.Options.Backend, ctx.Provider.GetConfigPath())
	return nil
}

// migrator is implemented by the SQL backends
type migrator interface {
	Migrate(logFn func(string)) (int, error)
	PendingMigrations() (int, error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Provider.(migrator)
	if !ok {
		ctx.Println("This backend has no schema migrations.")
		return nil
	}

	count, err := m.Migrate(func(msg string) { ctx.Println(msg) })
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
