package countdowns

import (
	"github.com/julianstephens/daycount/internal/calculator"
	"github.com/julianstephens/daycount/internal/cli"
	"github.com/julianstephens/daycount/internal/constants"
)

type PreviewCmd struct {
	Start    string `help:"Start date (YYYY-MM-DD)." required:""`
	End      string `help:"End date (YYYY-MM-DD)." required:""`
	ExtraDay bool   `help:"Add one extra day to the span." name:"extra-day"`
}

func (c *PreviewCmd) Run(ctx *cli.Context) error {
	total, err := calculator.Preview(calculator.PreviewRequest{
		StartDate:   c.Start,
		EndDate:     c.End,
		AddExtraDay: c.ExtraDay,
	})
	if err != nil {
		return cli.UserError(err)
	}

	ctx.Printf("Total: %d %s\n", total, dayWord(total))
	if c.ExtraDay {
		ctx.Printf("(%s)\n", constants.MsgExtraDayIncluded)
	}
	return nil
}

func dayWord(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}
