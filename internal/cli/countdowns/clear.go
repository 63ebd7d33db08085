package countdowns

import (
	"context"
	"fmt"

	"github.com/julianstephens/daycount/internal/cli"
)

type ClearCmd struct {
	Yes bool `help:"Skip the confirmation prompt." short:"y"`
}

func (c *ClearCmd) Run(ctx *cli.Context) error {
	if err := ctx.Bind(context.Background()); err != nil {
		return cli.UserError(err)
	}
	n := len(ctx.Countdowns.List())

	if !c.Yes {
		ok, err := ctx.Confirm("Delete all " + pluralCountdowns(n) + "?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Clear cancelled.")
			return nil
		}
	}

	if err := ctx.Countdowns.Clear(); err != nil {
		return cli.UserError(err)
	}
	ctx.Printf("✓ Cleared %s\n", pluralCountdowns(n))
	return nil
}

func pluralCountdowns(n int) string {
	if n == 1 {
		return "1 countdown"
	}
	return fmt.Sprintf("%d countdowns", n)
}
