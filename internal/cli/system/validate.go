package system

import (
	"fmt"

	"github.com/julianstephens/daycount/internal/cli"
	"github.com/julianstephens/daycount/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Repair fixable conflicts and save the result."`
	All bool `help:"Check every stored identity, not just the signed-in one."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	ids, err := c.identities(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		ctx.Println("No stored countdowns to validate.")
		return nil
	}

	v := validation.New()
	for _, id := range ids {
		list, found, err := ctx.Store.LoadCountdowns(id)
		if err != nil {
			return fmt.Errorf("failed to load countdowns for %s: %w", id, err)
		}
		if !found {
			ctx.Printf("%s: no stored countdowns\n", id)
			continue
		}

		result := v.ValidateCountdowns(list)
		ctx.Printf("%s: %s", id, result.FormatReport())
		if !result.HasConflicts() {
			ctx.Println()
		}
		if !c.Fix || !result.HasConflicts() {
			continue
		}

		fixed, actions := v.Fix(list, result.Conflicts)
		if len(actions) == 0 {
			ctx.Println("  Nothing could be fixed automatically.")
			continue
		}
		if err := ctx.Store.SaveCountdowns(id, fixed); err != nil {
			return fmt.Errorf("failed to save fixed countdowns for %s: %w", id, err)
		}
		for _, a := range actions {
			ctx.Printf("  ✓ %s\n", a.Action)
		}
	}
	return nil
}

func (c *ValidateCmd) identities(ctx *cli.Context) ([]string, error) {
	if !c.All && ctx.Session != nil {
		if id, ok := ctx.Session.Current(); ok {
			return []string{id}, nil
		}
	}
	ids, err := ctx.Store.ListIdentities()
	if err != nil {
		return nil, fmt.Errorf("failed to list identities: %w", err)
	}
	return ids, nil
}
