package system

import (
	"fmt"

	"github.com/julianstephens/daycount/internal/cli"
)

// migrator is implemented by the SQL backends.
type migrator interface {
	ApplyMigrations(logFn func(string)) (int, error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	m, ok := ctx.Store.(migrator)
	if !ok {
		ctx.Printf("%s storage has no schema migrations. Nothing to do.\n", ctx.Store.GetConfigPath())
		return nil
	}

	count, err := m.ApplyMigrations(func(msg string) {
		ctx.Println(msg)
	})
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
