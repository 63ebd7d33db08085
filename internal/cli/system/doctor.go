package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/daycount/internal/cli"
	"github.com/julianstephens/daycount/internal/constants"
	"github.com/julianstephens/daycount/internal/keyring"
	"github.com/julianstephens/daycount/internal/lockfile"
	"github.com/julianstephens/daycount/internal/validation"
)

// schemaReporter is implemented by the SQL backends.
type schemaReporter interface {
	SchemaStatus() (current int, pending int, err error)
}

type DoctorCmd struct{}

type checkResult int

const (
	checkOK checkResult = iota
	checkFail
	checkWarn
	checkSkip
)

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	report := func(name string, result checkResult, detail string) {
		switch result {
		case checkOK:
			ctx.Printf("✓ %s: OK\n", name)
		case checkFail:
			ctx.Printf("❌ %s: FAIL\n", name)
			ctx.Printf("   Error: %s\n", detail)
			hasError = true
		case checkWarn:
			ctx.Printf("⚠ %s: WARNING\n", name)
			ctx.Printf("   %s\n", detail)
		case checkSkip:
			ctx.Printf("⊘ %s: SKIPPED (%s)\n", name, detail)
		}
		if result == checkOK && detail != "" {
			ctx.Printf("   %s\n", detail)
		}
	}

	reachable := false
	if err := ctx.Store.Load(); err != nil {
		report("Storage reachable", checkFail, err.Error())
	} else {
		report("Storage reachable", checkOK, "")
		reachable = true
	}

	if !reachable {
		report("Schema version", checkSkip, "storage not reachable")
	} else if r, ok := ctx.Store.(schemaReporter); !ok {
		report("Schema version", checkSkip, "backend has no schema")
	} else if err := checkSchema(r); err != nil {
		report("Schema version", checkFail, err.Error())
	} else {
		report("Schema version", checkOK, "")
	}

	if mgr, err := ctx.BackupManager(); err != nil {
		report("Backups present", checkSkip, "backups only apply to SQLite storage")
	} else if backups, err := mgr.List(); err != nil {
		report("Backups present", checkWarn, err.Error())
	} else if len(backups) == 0 {
		report("Backups present", checkWarn, "no backups found; run 'daycount backup create'")
	} else {
		report("Backups present", checkOK, "")
	}

	if !reachable {
		report("Data validation", checkSkip, "storage not reachable")
	} else if stale, err := checkValidation(ctx); err != nil {
		report("Data validation", checkFail, err.Error())
	} else if stale > 0 {
		report("Data validation", checkOK, fmt.Sprintf("%d stored total(s) behind today; they refresh on load or with 'daycount validate --fix'", stale))
	} else {
		report("Data validation", checkOK, "")
	}

	if err := checkClockTimezone(time.Now()); err != nil {
		report("Clock/timezone", checkFail, err.Error())
	} else {
		report("Clock/timezone", checkOK, "")
	}

	if keyring.IsAvailable() {
		report("Keyring available", checkOK, "")
	} else {
		report("Keyring available", checkWarn, "OS keyring is unavailable; use DAYCOUNT_IDENTITY or --as to pick an identity")
	}

	if ctx.Session == nil {
		report("Signed in", checkSkip, "no session configured")
	} else if id, ok := ctx.Session.Current(); ok {
		report("Signed in", checkOK, "as "+id)
	} else {
		report("Signed in", checkWarn, "not signed in; run 'daycount login <email>'")
	}

	if ctx.ConfigDir != "" {
		if pid, id, held := lockfile.Status(ctx.ConfigDir); held {
			ctx.Printf("ℹ Watcher running: PID %d for %s\n", pid, id)
		}
	}

	ctx.Println()
	if hasError {
		return errors.New("diagnostics failed")
	}
	ctx.Println("All checks passed.")
	return nil
}

func checkSchema(r schemaReporter) error {
	current, pending, err := r.SchemaStatus()
	if err != nil {
		return err
	}
	if current == 0 {
		return errors.New("schema version not set; run 'daycount init'")
	}
	if pending > 0 {
		return fmt.Errorf("%d migration(s) pending at version %d; run 'daycount migrate'", pending, current)
	}
	return nil
}

// checkValidation validates every identity's stored collection. Stored
// totals go stale as days pass, so those are counted rather than failed.
func checkValidation(ctx *cli.Context) (stale int, err error) {
	ids, err := ctx.Store.ListIdentities()
	if err != nil {
		return 0, fmt.Errorf("failed to list identities: %w", err)
	}

	v := validation.New()
	conflicts := 0
	for _, id := range ids {
		list, _, err := ctx.Store.LoadCountdowns(id)
		if err != nil {
			return 0, fmt.Errorf("failed to load countdowns for %s: %w", id, err)
		}
		result := v.ValidateCountdowns(list)
		for _, c := range result.Conflicts {
			if c.Type == constants.ConflictStaleTotal {
				stale++
				continue
			}
			conflicts++
		}
	}
	if conflicts > 0 {
		return stale, fmt.Errorf("found %d conflict(s); run 'daycount validate' for details", conflicts)
	}
	return stale, nil
}

func checkClockTimezone(now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
