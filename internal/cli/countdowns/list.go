package countdowns

import (
	"context"
	"encoding/json"

	"github.com/julianstephens/daycount/internal/cli"
)

type ListCmd struct {
	ShowIDs bool `help:"Show countdown IDs." name:"show-ids"`
	JSON    bool `help:"Print the list as JSON." name:"json"`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Bind(context.Background()); err != nil {
		return cli.UserError(err)
	}
	list := ctx.Countdowns.List()

	if c.JSON {
		enc := json.NewEncoder(ctx.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	ctx.Printf("Countdowns for %s:\n", ctx.Countdowns.Identity())
	renderList(ctx.Writer(), list, c.ShowIDs)
	return nil
}
