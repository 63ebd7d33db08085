package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daycount/internal/cli"
	"github.com/julianstephens/daycount/internal/countdown"
	"github.com/julianstephens/daycount/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interval := ctx.RefreshInterval()
	changes := make(chan struct{}, 1)
	store := countdown.New(ctx.Store,
		countdown.WithInterval(interval),
		countdown.OnChange(func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		}),
	)
	defer store.Close()

	unfollow, err := store.Follow(runCtx, ctx.Session)
	if err != nil {
		return cli.UserError(err)
	}
	defer unfollow()
	ctx.WatchSession(runCtx, interval)

	p := tea.NewProgram(tui.NewModel(store, ctx.Session, changes), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
