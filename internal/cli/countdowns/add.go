package countdowns

import (
	"context"

	"github.com/julianstephens/daycount/internal/calculator"
	"github.com/julianstephens/daycount/internal/cli"
	"github.com/julianstephens/daycount/internal/countdown"
)

type AddCmd struct {
	Label    string `arg:"" help:"Countdown label."`
	Start    string `help:"Start date (YYYY-MM-DD)." required:""`
	End      string `help:"End date (YYYY-MM-DD)." required:""`
	ExtraDay bool   `help:"Add one extra day to the span." name:"extra-day"`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Bind(context.Background()); err != nil {
		return cli.UserError(err)
	}

	// Saving always follows a successful preview, as in the calculator form.
	total, err := calculator.Preview(calculator.PreviewRequest{
		StartDate:   c.Start,
		EndDate:     c.End,
		AddExtraDay: c.ExtraDay,
	})
	if err != nil {
		return cli.UserError(err)
	}

	saved, err := ctx.Countdowns.Add(countdown.AddRequest{
		Label:            c.Label,
		StartDate:        c.Start,
		EndDate:          c.End,
		AddExtraDay:      c.ExtraDay,
		PreviewTotalDays: &total,
	})
	if err != nil {
		return cli.UserError(err)
	}

	ctx.Printf("✓ Saved countdown: %s (ID: %s)\n", saved.Label, saved.ID)
	ctx.Printf("  %s, %s\n", saved.Span(), saved.Remaining())
	return nil
}
