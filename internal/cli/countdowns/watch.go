package countdowns

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/daycount/internal/cli"
	"github.com/julianstephens/daycount/internal/constants"
	"github.com/julianstephens/daycount/internal/countdown"
	"github.com/julianstephens/daycount/internal/lockfile"
)

type WatchCmd struct {
	Interval time.Duration `help:"Refresh interval, e.g. 30s. Defaults to DAYCOUNT_REFRESH_INTERVAL."`
}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.watch(runCtx, ctx)
}

func (c *WatchCmd) interval(ctx *cli.Context) time.Duration {
	if c.Interval > 0 {
		return c.Interval
	}
	return ctx.RefreshInterval()
}

func (c *WatchCmd) watch(runCtx context.Context, ctx *cli.Context) error {
	id, ok := ctx.Session.Current()
	if !ok {
		return cli.UserError(fmt.Errorf("%w: run 'daycount login <email>' first", countdown.ErrNotAuthorized))
	}

	lock, err := lockfile.Acquire(ctx.ConfigDir, id)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	interval := c.interval(ctx)
	changed := make(chan struct{}, 1)
	store := countdown.New(ctx.Store,
		countdown.WithInterval(interval),
		countdown.OnChange(func() {
			select {
			case changed <- struct{}{}:
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

	ctx.Printf("Watching countdowns, refreshing every %s (Ctrl-C to stop)\n", interval)
	for {
		select {
		case <-runCtx.Done():
			ctx.Println("Stopped.")
			return nil
		case <-changed:
			render(ctx, store)
		}
	}
}

func render(ctx *cli.Context, store *countdown.Store) {
	ctx.Println()
	if store.State() != countdown.Loaded {
		ctx.Println(constants.MsgSignInRequired)
		return
	}
	ctx.Printf("%s  %s\n", time.Now().Format("2006-01-02 15:04:05"), store.Identity())
	renderList(ctx.Writer(), store.List(), false)
}
