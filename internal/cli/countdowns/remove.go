package countdowns

import (
	"context"

	"github.com/julianstephens/daycount/internal/cli"
)

type RemoveCmd struct {
	ID string `arg:"" help:"Countdown ID to delete."`
}

func (c *RemoveCmd) Run(ctx *cli.Context) error {
	if err := ctx.Bind(context.Background()); err != nil {
		return cli.UserError(err)
	}

	var label string
	for _, cd := range ctx.Countdowns.List() {
		if cd.ID == c.ID {
			label = cd.Label
			break
		}
	}

	removed, err := ctx.Countdowns.Remove(c.ID)
	if err != nil {
		return cli.UserError(err)
	}
	if !removed {
		ctx.Printf("No countdown with ID %s, nothing to delete\n", c.ID)
		return nil
	}
	ctx.Printf("Deleted countdown: %s (ID: %s)\n", label, c.ID)
	return nil
}
