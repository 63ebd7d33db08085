package account

import (
	"errors"
	"fmt"

	"github.com/julianstephens/daycount/internal/cli"
	"github.com/julianstephens/daycount/internal/constants"
	"github.com/julianstephens/daycount/internal/identity"
	"github.com/julianstephens/daycount/internal/models"
)

// LoginCmd signs in with an e-mail address.
type LoginCmd struct {
	Email string `arg:"" help:"E-mail address to sign in as."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	if err := ctx.Session.SignIn(c.Email); err != nil {
		return fmt.Errorf("sign in failed: %w", err)
	}
	id, _ := ctx.Session.Current()
	ctx.Printf("✓ Signed in as %s\n", id)

	list, found, err := ctx.Store.LoadCountdowns(id)
	if err != nil {
		return fmt.Errorf("signed in, but failed to load countdowns: %w", err)
	}
	if found {
		ctx.Println(models.Summary(len(list)))
	} else {
		ctx.Println(constants.MsgNoCountdowns)
	}
	return nil
}

// LogoutCmd signs out. Saved countdowns stay in storage.
type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	prev, _ := ctx.Session.Current()
	if err := ctx.Session.SignOut(); err != nil {
		if errors.Is(err, identity.ErrNotSignedIn) {
			ctx.Println("Not signed in.")
			return nil
		}
		return fmt.Errorf("sign out failed: %w", err)
	}
	ctx.Printf("✓ Signed out %s\n", prev)
	return nil
}

// WhoamiCmd prints the signed-in identity.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	id, ok := ctx.Session.Current()
	if !ok {
		ctx.Println(constants.MsgSignInRequired)
		return nil
	}
	ctx.Println(id)
	return nil
}
