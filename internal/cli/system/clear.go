package system

import (
	"fmt"

	"github.com/julianstephens/caltrack/internal/cli"
	"github.com/julianstephens/caltrack/internal/docstore"
)

// ClearCmd erases every user, record and the active session
type ClearCmd struct {
	IncludeFoods bool `help:"Also erase custom foods, including ones no user references."`
	Yes          bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ClearCmd) Run(ctx *cli.Context) error {
	users := ctx.Store.ListAllUsers()
	ctx.Warn("This erases %d user(s) and all of their daily records.", len(users))

	if !c.Yes {
		if !ctx.Interactive {
			return fmt.Errorf("clear needs confirmation, pass --yes")
		}
		ok, err := cli.Confirm("Erase all data?", "A backup is taken first.")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Clear cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	eraseFoods := c.IncludeFoods || ctx.Options.EraseCustomFoods
	opts := append(ctx.Options.StoreOptions(), docstore.WithEraseCustomFoods(eraseFoods))
	store := docstore.New(ctx.Provider, opts...)
	if err := store.ClearAllData(); err != nil {
		return fmt.Errorf("some data could not be erased: %w", err)
	}

	if eraseFoods {
		ctx.Success("All data erased, including custom foods")
	} else {
		ctx.Success("All data erased (custom foods kept, use --include-foods to remove them)")
	}
	return nil
}
