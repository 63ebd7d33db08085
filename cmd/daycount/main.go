package main

import (
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/daycount/internal/cli"
	"github.com/julianstephens/daycount/internal/cli/account"
	"github.com/julianstephens/daycount/internal/cli/backups"
	"github.com/julianstephens/daycount/internal/cli/countdowns"
	"github.com/julianstephens/daycount/internal/cli/system"
	"github.com/julianstephens/daycount/internal/config"
	"github.com/julianstephens/daycount/internal/constants"
	"github.com/julianstephens/daycount/internal/countdown"
	"github.com/julianstephens/daycount/internal/errors"
	"github.com/julianstephens/daycount/internal/identity"
	"github.com/julianstephens/daycount/internal/keyring"
	"github.com/julianstephens/daycount/internal/logger"
	"github.com/julianstephens/daycount/internal/storage"
)

var CLI struct {
	Version         kong.VersionFlag
	Config          string        `help:"SQLite or JSON file path, or a postgres://, redis:// or mongodb:// URL. PostgreSQL credentials must NOT be embedded; use the keyring, DAYCOUNT_DB_CONNECTION or .pgpass." type:"string" default:"${config}"`
	As              string        `help:"Act as this identity instead of the signed-in one." placeholder:"EMAIL"`
	Debug           bool          `help:"Enable debug logging, mirrored to stderr."`
	RefreshInterval time.Duration `help:"How often remaining days are recomputed." placeholder:"60s"`

	Init     system.InitCmd     `cmd:"" help:"Initialize daycount storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Check stored countdowns for problems."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`

	Login  account.LoginCmd  `cmd:"" help:"Sign in with an e-mail address."`
	Logout account.LogoutCmd `cmd:"" help:"Sign out."`
	Whoami account.WhoamiCmd `cmd:"" help:"Show the signed-in identity."`

	Preview countdowns.PreviewCmd `cmd:"" help:"Calculate a span without saving it."`
	Add     countdowns.AddCmd     `cmd:"" help:"Save a countdown."`
	List    countdowns.ListCmd    `cmd:"" help:"List saved countdowns."`
	Remove  countdowns.RemoveCmd  `cmd:"" help:"Remove a countdown."`
	Clear   countdowns.ClearCmd   `cmd:"" help:"Remove all countdowns."`
	Watch   countdowns.WatchCmd   `cmd:"" help:"Print countdowns and refresh them until interrupted."`

	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a database connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Delete the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Show keyring availability and contents."`
	} `cmd:"" help:"Manage credentials in the OS keyring."`
}

// selfLoading commands open the store themselves or never need it.
var selfLoading = map[string]bool{
	"init":    true,
	"doctor":  true,
	"keyring": true,
	"preview": true,
	"logout":  true,
	"whoami":  true,
}

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		errors.Fatal(err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Countdowns to the days that matter"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"config":  cfg.Storage.Config,
		},
	)

	if CLI.RefreshInterval > 0 {
		cfg.SetRefreshInterval(CLI.RefreshInterval)
	}

	configDir, err := config.Dir(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug || cfg.App.Debug, ConfigDir: configDir}); err != nil {
		errors.Fatal(err)
	}

	store, err := openStore(cfg)
	if err != nil {
		errors.Fatal(err)
	}
	session, err := openSession(cfg)
	if err != nil {
		errors.Fatal(err)
	}

	appCtx := &cli.Context{
		Store:      store,
		Countdowns: countdown.New(store, countdown.WithInterval(cfg.RefreshInterval())),
		Session:    session,
		Config:     cfg,
		ConfigDir:  configDir,
	}
	cleanup := func() {
		appCtx.Countdowns.Close()
		if err := store.Close(); err != nil {
			logger.Warn("failed to close storage", "error", err)
		}
	}

	command := strings.Fields(ctx.Command())
	if len(command) > 0 && !selfLoading[command[0]] {
		if err := store.Load(); err != nil {
			cleanup()
			errors.Fatal(err)
		}
	}

	err = ctx.Run(appCtx)
	cleanup()
	errors.Fatal(err)
	_ = logger.Close()
}

// openStore prefers a credentialed connection string from the environment
// or keyring unless --config points somewhere else.
func openStore(cfg config.Config) (storage.Provider, error) {
	if CLI.Config == cfg.Storage.Config {
		if cfg.Storage.Connection != "" {
			return cli.OpenTrustedStore(cfg.Storage.Connection), nil
		}
		if connStr, err := keyring.GetConnectionString(); err == nil && connStr != "" {
			logger.Debug("using connection string from keyring")
			return cli.OpenTrustedStore(connStr), nil
		}
	}
	return cli.OpenStore(CLI.Config)
}

func openSession(cfg config.Config) (identity.Session, error) {
	as := CLI.As
	if as == "" {
		as = cfg.Identity.Override
	}
	if as == "" {
		return identity.NewKeyring(), nil
	}
	id, err := identity.Normalize(as)
	if err != nil {
		return nil, err
	}
	return identity.NewStatic(id), nil
}
