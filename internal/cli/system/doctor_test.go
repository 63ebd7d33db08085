package system

import (
	"strings"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/daycount/internal/backup"
	"github.com/julianstephens/daycount/internal/identity"
	"github.com/julianstephens/daycount/internal/models"
	"github.com/julianstephens/daycount/internal/storage/sqlite"
)

func TestDoctorCmd_HealthyDB(t *testing.T) {
	gokeyring.MockInit()
	ctx, out := setupTestContext(t)

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed on healthy database: %v\n%s", err, out.String())
	}
	for _, want := range []string{
		"✓ Storage reachable: OK",
		"✓ Schema version: OK",
		"⚠ Backups present: WARNING",
		"✓ Data validation: OK",
		"✓ Keyring available: OK",
		"✓ Signed in: OK",
		"All checks passed.",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDoctorCmd_BackupsPresent(t *testing.T) {
	gokeyring.MockInit()
	ctx, out := setupTestContext(t)
	if _, err := backup.NewManager(ctx.Store.GetConfigPath()).Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Backups present: OK") {
		t.Errorf("output = %s, want backups OK", out.String())
	}
}

func TestDoctorCmd_BrokenSchema(t *testing.T) {
	gokeyring.MockInit()
	ctx, out := setupTestContext(t)

	db := ctx.Store.(*sqlite.Store).GetDB()
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to clear schema version: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail when the schema version is missing")
	}
	if !strings.Contains(out.String(), "❌ Schema version: FAIL") {
		t.Errorf("output = %s, want schema failure", out.String())
	}
}

func TestDoctorCmd_DuplicateIDsFail(t *testing.T) {
	gokeyring.MockInit()
	ctx, out := setupTestContext(t)

	dup := models.Countdown{ID: "same", Label: "Trip", StartDate: "2024-01-01", EndDate: "2024-01-10"}
	if err := ctx.Store.SaveCountdowns("ada@example.com", []models.Countdown{dup, dup}); err != nil {
		t.Fatalf("SaveCountdowns() failed: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail on duplicate ids")
	}
	if !strings.Contains(out.String(), "❌ Data validation: FAIL") {
		t.Errorf("output = %s, want validation failure", out.String())
	}
}

func TestDoctorCmd_StaleTotalsOnlyNoted(t *testing.T) {
	gokeyring.MockInit()
	ctx, out := setupTestContext(t)

	stale := models.Countdown{ID: "a", Label: "Long ago", StartDate: "2020-01-01", EndDate: "2020-02-01", TotalDays: 31}
	if err := ctx.Store.SaveCountdowns("ada@example.com", []models.Countdown{stale}); err != nil {
		t.Fatalf("SaveCountdowns() failed: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor should not fail on stale totals: %v", err)
	}
	if !strings.Contains(out.String(), "1 stored total(s) behind today") {
		t.Errorf("output = %s, want stale note", out.String())
	}
}

func TestDoctorCmd_SignedOutWarns(t *testing.T) {
	gokeyring.MockInit()
	ctx, out := setupTestContext(t)
	ctx.Session = identity.NewStatic("")

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("signed out should only warn: %v", err)
	}
	if !strings.Contains(out.String(), "⚠ Signed in: WARNING") {
		t.Errorf("output = %s, want signed-out warning", out.String())
	}
}

func TestCheckClockTimezone(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		wantErr bool
	}{
		{"current", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), false},
		{"epoch", time.Unix(0, 0), true},
		{"far future", time.Date(2150, 1, 1, 0, 0, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := checkClockTimezone(tt.now); (err != nil) != tt.wantErr {
				t.Errorf("checkClockTimezone() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
