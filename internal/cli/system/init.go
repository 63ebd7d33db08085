package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/daycount/internal/cli"
	"github.com/julianstephens/daycount/internal/config"
)

type InitCmd struct {
	Force  bool   `help:"Delete an existing local storage file before initialization."`
	Source string `help:"Storage path or connection string to copy countdowns from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized daycount storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" && !config.IsRemote(c.Source) {
		absDB, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDB
		}
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing storage: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing storage: %w", err)
		}
		ctx.Printf("Deleted existing storage at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing storage: %w", err)
	}
	return nil
}

// migrateData copies every identity's collection from the source store.
func (c *InitCmd) migrateData(ctx *cli.Context) error {
	source, err := cli.OpenStore(c.Source)
	if err != nil {
		return err
	}
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source storage: %w", err)
	}
	defer source.Close()

	ids, err := source.ListIdentities()
	if err != nil {
		return fmt.Errorf("failed to list identities in source: %w", err)
	}

	total := 0
	for _, id := range ids {
		list, found, err := source.LoadCountdowns(id)
		if err != nil {
			return fmt.Errorf("failed to read countdowns for %s: %w", id, err)
		}
		if !found {
			continue
		}
		if err := ctx.Store.SaveCountdowns(id, list); err != nil {
			return fmt.Errorf("failed to save countdowns for %s: %w", id, err)
		}
		ctx.Printf("    Migrated %d countdowns for %s\n", len(list), id)
		total += len(list)
	}
	ctx.Printf("  Migrated %d countdowns across %d identities\n", total, len(ids))
	return nil
}
