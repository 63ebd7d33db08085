package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/daycount/internal/backup"
	"github.com/julianstephens/daycount/internal/config"
	"github.com/julianstephens/daycount/internal/constants"
	"github.com/julianstephens/daycount/internal/countdown"
	"github.com/julianstephens/daycount/internal/identity"
	"github.com/julianstephens/daycount/internal/logger"
	"github.com/julianstephens/daycount/internal/storage"
	"github.com/julianstephens/daycount/internal/storage/mongo"
	"github.com/julianstephens/daycount/internal/storage/postgres"
	"github.com/julianstephens/daycount/internal/storage/redis"
	"github.com/julianstephens/daycount/internal/storage/sqlite"
)

type Context struct {
	Store      storage.Provider
	Countdowns *countdown.Store
	Session    identity.Session
	Config     config.Config
	ConfigDir  string

	Out io.Writer
	In  io.Reader
}

// Writer returns Out, or stdout when unset.
func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Writer(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Writer(), args...)
}

// Confirm asks a yes/no question on In and reports whether the answer was yes.
func (c *Context) Confirm(prompt string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// Bind loads the signed-in identity's countdowns into ctx.Countdowns.
func (c *Context) Bind(ctx context.Context) error {
	id, ok := c.Session.Current()
	if !ok {
		return fmt.Errorf("%w: run 'daycount login <email>' first", countdown.ErrNotAuthorized)
	}
	return c.Countdowns.Bind(ctx, id)
}

// BackupManager returns the backup manager for a SQLite store. Other
// backends have their own backup tooling.
func (c *Context) BackupManager() (*backup.Manager, error) {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return nil, fmt.Errorf("backups are only supported for SQLite storage, not %s", c.Store.GetConfigPath())
	}
	return backup.NewManager(c.Store.GetConfigPath()), nil
}

// RefreshInterval returns the configured refresh period, or the default
// when the config was never loaded.
func (c *Context) RefreshInterval() time.Duration {
	if d := c.Config.RefreshInterval(); d > 0 {
		return d
	}
	return constants.RefreshInterval
}

// WatchSession polls for sign-ins and sign-outs made from other terminals
// until ctx ends, when the session supports it.
func (c *Context) WatchSession(ctx context.Context, interval time.Duration) {
	if w, ok := c.Session.(interface {
		Watch(context.Context, time.Duration)
	}); ok {
		go w.Watch(ctx, interval)
	}
}

// PerformAutomaticBackup snapshots a SQLite store and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.BackupManager()
	if err != nil {
		return
	}
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// OpenStore picks a backend for target: PostgreSQL, Redis and MongoDB URLs,
// a .json file, or a SQLite database path.
func OpenStore(target string) (storage.Provider, error) {
	switch {
	case postgres.IsConnString(target):
		if _, err := postgres.ValidateConnString(target); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w: store the full connection string with 'daycount keyring set' or DAYCOUNT_DB_CONNECTION, or use .pgpass", err)
			}
			return nil, err
		}
		return postgres.New(target), nil
	case redis.IsConnString(target):
		return redis.New(target), nil
	case mongo.IsConnString(target):
		return mongo.New(target), nil
	}

	path, err := config.ExpandHome(target)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return storage.NewJSONStore(path), nil
	}
	return sqlite.NewStore(path), nil
}

// OpenTrustedStore opens a connection string that came from the keyring or
// environment. Embedded passwords are allowed there.
func OpenTrustedStore(connStr string) storage.Provider {
	switch {
	case redis.IsConnString(connStr):
		return redis.New(connStr)
	case mongo.IsConnString(connStr):
		return mongo.New(connStr)
	default:
		return postgres.New(connStr)
	}
}

type userError struct{ err error }

func (e userError) Error() string { return countdown.UserMessage(e.err) }
func (e userError) Unwrap() error { return e.err }

// UserError prints err as the sentence a person should see while keeping
// it matchable with errors.Is. Persistence failures keep their cause.
func UserError(err error) error {
	if err == nil || errors.Is(err, countdown.ErrPersistenceFailure) {
		return err
	}
	return userError{err: err}
}
