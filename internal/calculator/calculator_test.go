package calculator

import (
	"errors"
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q) failed: %v", s, err)
	}
	return d
}

func TestPreviewSpan(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		extra bool
		want  int
	}{
		{"nine days", "2024-01-01", "2024-01-10", false, 9},
		{"nine days plus extra", "2024-01-01", "2024-01-10", true, 10},
		{"same day", "2024-03-05", "2024-03-05", false, 0},
		{"same day plus extra", "2024-03-05", "2024-03-05", true, 1},
		{"leap february", "2024-02-01", "2024-03-01", false, 29},
		{"across year", "2023-12-31", "2024-01-01", false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PreviewSpan(mustDate(t, tt.start), mustDate(t, tt.end), tt.extra)
			if got != tt.want {
				t.Errorf("PreviewSpan(%s, %s, %v) = %d, want %d", tt.start, tt.end, tt.extra, got, tt.want)
			}
		})
	}
}

func TestPreviewSpanRoundsPartialDaysUp(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(48*time.Hour + time.Millisecond)

	if got := PreviewSpan(start, end, false); got != 3 {
		t.Errorf("PreviewSpan() = %d, want 3 for two days and a millisecond", got)
	}
}

func TestPreviewSpanExtraDayAddsOne(t *testing.T) {
	start := mustDate(t, "2024-01-01")
	for offset := 0; offset < 400; offset += 37 {
		end := start.AddDate(0, 0, offset).Add(time.Duration(offset) * time.Minute)
		without := PreviewSpan(start, end, false)
		with := PreviewSpan(start, end, true)
		if with != without+1 {
			t.Errorf("offset %d: PreviewSpan(extra) = %d, want %d", offset, with, without+1)
		}
	}
}

func TestRemainingSpan(t *testing.T) {
	end := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		now   time.Time
		extra bool
		want  int
	}{
		{"nine days out", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), false, 9},
		{"partial day rounds up", time.Date(2024, 1, 9, 12, 0, 0, 0, time.UTC), false, 1},
		{"partial day with extra", time.Date(2024, 1, 9, 12, 0, 0, 0, time.UTC), true, 2},
		{"exactly at end", end, false, 0},
		{"exactly at end with extra", end, true, 1},
		{"one millisecond past", end.Add(time.Millisecond), false, 0},
		{"one millisecond past with extra", end.Add(time.Millisecond), true, 0},
		{"long past with extra", end.AddDate(1, 0, 0), true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemainingSpan(time.Time{}, end, tt.extra, tt.now)
			if got != tt.want {
				t.Errorf("RemainingSpan(now=%s, extra=%v) = %d, want %d", tt.now, tt.extra, got, tt.want)
			}
		})
	}
}

func TestRemainingSpanIgnoresStart(t *testing.T) {
	end := mustDate(t, "2024-06-01")
	now := mustDate(t, "2024-05-01")

	a := RemainingSpan(mustDate(t, "2020-01-01"), end, false, now)
	b := RemainingSpan(mustDate(t, "2024-05-30"), end, false, now)
	if a != b {
		t.Errorf("RemainingSpan depends on start: %d vs %d", a, b)
	}
}

func TestRemainingSpanYesterdayIsZero(t *testing.T) {
	now := time.Now()
	yesterday := mustDate(t, now.AddDate(0, 0, -1).UTC().Format("2006-01-02"))

	for _, extra := range []bool{false, true} {
		if got := RemainingSpan(yesterday, yesterday, extra, now); got != 0 {
			t.Errorf("RemainingSpan(yesterday, extra=%v) = %d, want 0", extra, got)
		}
	}
}

func TestRemainingSpanMonotone(t *testing.T) {
	end := mustDate(t, "2024-12-25")
	for _, extra := range []bool{false, true} {
		prev := RemainingSpan(time.Time{}, end, extra, mustDate(t, "2024-01-01"))
		for now := mustDate(t, "2024-01-01"); !now.After(end.AddDate(0, 0, 2)); now = now.Add(7 * time.Hour) {
			cur := RemainingSpan(time.Time{}, end, extra, now)
			if cur > prev {
				t.Fatalf("RemainingSpan increased from %d to %d at %s (extra=%v)", prev, cur, now, extra)
			}
			if cur < 0 {
				t.Fatalf("RemainingSpan negative at %s", now)
			}
			prev = cur
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-01-10 ")
	if err != nil {
		t.Fatalf("ParseDate() failed: %v", err)
	}
	if !d.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDate() = %s, want midnight UTC", d)
	}

	if _, err := ParseDate(""); !errors.Is(err, ErrMissingDate) {
		t.Errorf("ParseDate(\"\") error = %v, want %v", err, ErrMissingDate)
	}
	if _, err := ParseDate("2024-13-01"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("ParseDate(bad month) error = %v, want %v", err, ErrInvalidDate)
	}
	if _, err := ParseDate("01/10/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("ParseDate(wrong layout) error = %v, want %v", err, ErrInvalidDate)
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name    string
		req     PreviewRequest
		want    int
		wantErr error
	}{
		{"scenario without extra", PreviewRequest{"2024-01-01", "2024-01-10", false}, 9, nil},
		{"scenario with extra", PreviewRequest{"2024-01-01", "2024-01-10", true}, 10, nil},
		{"start after end", PreviewRequest{"2024-01-10", "2024-01-01", false}, 0, ErrInvalidRange},
		{"missing start", PreviewRequest{"", "2024-01-01", false}, 0, ErrMissingDate},
		{"missing end", PreviewRequest{"2024-01-01", " ", true}, 0, ErrMissingDate},
		{"garbled end", PreviewRequest{"2024-01-01", "soon", false}, 0, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Preview(tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Preview() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Preview() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRemainingDays(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := RemainingDays("2024-01-01", "2024-01-10", true, now)
	if err != nil {
		t.Fatalf("RemainingDays() failed: %v", err)
	}
	if got != 10 {
		t.Errorf("RemainingDays() = %d, want 10", got)
	}

	if _, err := RemainingDays("2024-01-01", "bogus", false, now); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("RemainingDays(bogus) error = %v, want %v", err, ErrInvalidDate)
	}
}
