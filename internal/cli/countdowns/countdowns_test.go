package countdowns

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/daycount/internal/constants"
	"github.com/julianstephens/daycount/internal/countdown"
	"github.com/julianstephens/daycount/internal/models"
)

func TestPreviewCmd(t *testing.T) {
	tests := []struct {
		name    string
		cmd     PreviewCmd
		want    []string
		wantErr error
		wantMsg string
	}{
		{
			name: "plain span",
			cmd:  PreviewCmd{Start: "2024-01-01", End: "2024-01-10"},
			want: []string{"Total: 9 days"},
		},
		{
			name: "extra day",
			cmd:  PreviewCmd{Start: "2024-01-01", End: "2024-01-10", ExtraDay: true},
			want: []string{"Total: 10 days", constants.MsgExtraDayIncluded},
		},
		{
			name: "single day with extra",
			cmd:  PreviewCmd{Start: "2024-03-01", End: "2024-03-01", ExtraDay: true},
			want: []string{"Total: 1 day\n"},
		},
		{
			name:    "start after end",
			cmd:     PreviewCmd{Start: "2024-01-10", End: "2024-01-01"},
			wantErr: countdown.ErrInvalidRange,
			wantMsg: constants.MsgStartAfterEnd,
		},
		{
			name:    "bad date",
			cmd:     PreviewCmd{Start: "01/01/2024", End: "2024-01-10"},
			wantMsg: constants.MsgDateFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := setupTestContext(t, "")
			err := tt.cmd.Run(ctx)
			if tt.wantMsg != "" {
				if err == nil || err.Error() != tt.wantMsg {
					t.Fatalf("Run() error = %v, want %q", err, tt.wantMsg)
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Errorf("Run() error does not match %v", tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Run() failed: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output = %q, missing %q", out.String(), want)
				}
			}
		})
	}
}

func TestAddCmd_RequiresSignIn(t *testing.T) {
	ctx, _ := setupTestContext(t, "")
	err := (&AddCmd{Label: "Trip", Start: "2024-01-01", End: "2024-01-10"}).Run(ctx)
	if !errors.Is(err, countdown.ErrNotAuthorized) {
		t.Fatalf("Run() error = %v, want %v", err, countdown.ErrNotAuthorized)
	}
	if err.Error() != constants.MsgSignInRequired {
		t.Errorf("Run() message = %q, want %q", err.Error(), constants.MsgSignInRequired)
	}
}

func TestAddCmd_SavesWithRemainingDays(t *testing.T) {
	ctx, out := setupTestContext(t, "ada@example.com")
	addTrip(t, ctx, "Trip")

	if !strings.Contains(out.String(), "✓ Saved countdown: Trip") {
		t.Errorf("output = %q, want saved message", out.String())
	}
	if !strings.Contains(out.String(), "5 days left") {
		t.Errorf("output = %q, want remaining days from the clock", out.String())
	}

	stored, found, err := ctx.Store.LoadCountdowns("ada@example.com")
	if err != nil || !found {
		t.Fatalf("LoadCountdowns() = (%v, %v)", found, err)
	}
	if len(stored) != 1 || stored[0].Label != "Trip" || stored[0].TotalDays != 5 {
		t.Errorf("stored = %+v, want one Trip with 5 days", stored)
	}
}

func TestAddCmd_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cmd     AddCmd
		wantErr error
		wantMsg string
	}{
		{"blank label", AddCmd{Label: "   ", Start: "2024-01-01", End: "2024-01-10"}, countdown.ErrEmptyLabel, constants.MsgEnterLabel},
		{"inverted range", AddCmd{Label: "Trip", Start: "2024-01-10", End: "2024-01-01"}, countdown.ErrInvalidRange, constants.MsgStartAfterEnd},
		{"missing end", AddCmd{Label: "Trip", Start: "2024-01-10"}, nil, constants.MsgSelectBothDates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestContext(t, "ada@example.com")
			err := tt.cmd.Run(ctx)
			if err == nil || err.Error() != tt.wantMsg {
				t.Fatalf("Run() error = %v, want %q", err, tt.wantMsg)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Run() error does not match %v", tt.wantErr)
			}
			if _, found, _ := ctx.Store.LoadCountdowns("ada@example.com"); found {
				t.Error("a rejected add was persisted")
			}
		})
	}
}

func TestListCmd(t *testing.T) {
	ctx, out := setupTestContext(t, "ada@example.com")
	addTrip(t, ctx, "Trip")
	addTrip(t, ctx, "Exam")

	if err := (&ListCmd{ShowIDs: true}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Countdowns for ada@example.com:", "Trip (ID: ", "Exam (ID: ", "2 countdowns saved"} {
		if !strings.Contains(got, want) {
			t.Errorf("output = %q, missing %q", got, want)
		}
	}
	if strings.Index(got, "  Trip") > strings.Index(got, "  Exam") {
		t.Error("list is not in insertion order")
	}
}

func TestListCmd_Empty(t *testing.T) {
	ctx, out := setupTestContext(t, "ada@example.com")
	if err := (&ListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), constants.MsgNoCountdowns) {
		t.Errorf("output = %q, want empty message", out.String())
	}
}

func TestListCmd_JSON(t *testing.T) {
	ctx, out := setupTestContext(t, "ada@example.com")
	addTrip(t, ctx, "Trip")
	before := len(out.String())

	if err := (&ListCmd{JSON: true}).Run(ctx); err != nil {
		t.Fatalf("list --json failed: %v", err)
	}
	var list []models.Countdown
	if err := json.Unmarshal([]byte(out.String()[before:]), &list); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(list) != 1 || list[0].Label != "Trip" || list[0].TotalDays != 5 {
		t.Errorf("decoded = %+v", list)
	}
}

func TestRemoveCmd(t *testing.T) {
	ctx, out := setupTestContext(t, "ada@example.com")
	addTrip(t, ctx, "Trip")
	id := ctx.Countdowns.List()[0].ID

	if err := (&RemoveCmd{ID: "missing"}).Run(ctx); err != nil {
		t.Fatalf("remove of unknown id failed: %v", err)
	}
	if !strings.Contains(out.String(), "nothing to delete") {
		t.Errorf("output = %q, want nothing-to-delete message", out.String())
	}

	if err := (&RemoveCmd{ID: id}).Run(ctx); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if !strings.Contains(out.String(), "Deleted countdown: Trip (ID: "+id+")") {
		t.Errorf("output = %q, want deleted message", out.String())
	}
	stored, _, _ := ctx.Store.LoadCountdowns("ada@example.com")
	if len(stored) != 0 {
		t.Errorf("stored = %+v after remove, want empty", stored)
	}
}

func TestClearCmd(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		yes       bool
		wantLeft  int
		wantInOut string
	}{
		{name: "confirmed", input: "y\n", wantLeft: 0, wantInOut: "✓ Cleared 2 countdowns"},
		{name: "declined", input: "n\n", wantLeft: 2, wantInOut: "Clear cancelled."},
		{name: "no answer", input: "", wantLeft: 2, wantInOut: "Clear cancelled."},
		{name: "skip prompt", yes: true, wantLeft: 0, wantInOut: "✓ Cleared 2 countdowns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := setupTestContext(t, "ada@example.com")
			addTrip(t, ctx, "Trip")
			addTrip(t, ctx, "Exam")
			ctx.In = strings.NewReader(tt.input)

			if err := (&ClearCmd{Yes: tt.yes}).Run(ctx); err != nil {
				t.Fatalf("clear failed: %v", err)
			}
			if !strings.Contains(out.String(), tt.wantInOut) {
				t.Errorf("output = %q, want %q", out.String(), tt.wantInOut)
			}
			stored, found, _ := ctx.Store.LoadCountdowns("ada@example.com")
			if !found || len(stored) != tt.wantLeft {
				t.Errorf("stored = %d (found %v), want %d", len(stored), found, tt.wantLeft)
			}
		})
	}
}

func TestClearCmd_EmptyListStillPersists(t *testing.T) {
	ctx, out := setupTestContext(t, "ada@example.com")
	if err := (&ClearCmd{Yes: true}).Run(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Cleared 0 countdowns") {
		t.Errorf("output = %q", out.String())
	}
	if _, found, _ := ctx.Store.LoadCountdowns("ada@example.com"); !found {
		t.Error("clearing an empty list did not write an empty collection")
	}
}
