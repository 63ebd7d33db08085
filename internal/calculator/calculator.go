// Package calculator turns calendar dates into whole-day counts.
//
// Spans are measured in milliseconds and rounded up to whole days, so any
// partial day counts as a full one. Dates carry no time of day and are read
// as midnight UTC, the way a date-only ISO string is interpreted by most
// host date libraries.
package calculator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/daycount/internal/constants"
)

// MillisPerDay is the length of a day used for every span computation.
const MillisPerDay int64 = 24 * 60 * 60 * 1000

var (
	ErrMissingDate  = errors.New("both start and end dates are required")
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidRange = errors.New("start date cannot be after end date")
)

// PreviewRequest is an unsaved span calculation.
type PreviewRequest struct {
	StartDate   string
	EndDate     string
	AddExtraDay bool
}

// ParseDate reads a YYYY-MM-DD date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrMissingDate
	}
	t, err := time.ParseInLocation(constants.DateFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: expected YYYY-MM-DD", ErrInvalidDate, s)
	}
	return t, nil
}

// ParseRange parses both bounds and rejects a start after the end.
func ParseRange(startDate, endDate string) (time.Time, time.Time, error) {
	if strings.TrimSpace(startDate) == "" || strings.TrimSpace(endDate) == "" {
		return time.Time{}, time.Time{}, ErrMissingDate
	}
	start, err := ParseDate(startDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	return start, end, nil
}

// Preview validates the request and returns its span.
func Preview(req PreviewRequest) (int, error) {
	start, end, err := ParseRange(req.StartDate, req.EndDate)
	if err != nil {
		return 0, err
	}
	return PreviewSpan(start, end, req.AddExtraDay), nil
}

// PreviewSpan returns the whole days from start to end, plus one when
// addExtraDay is set. The result is not clamped; callers reject start > end.
func PreviewSpan(start, end time.Time, addExtraDay bool) int {
	days := ceilDays(end.UnixMilli() - start.UnixMilli())
	if addExtraDay {
		days++
	}
	return days
}

// RemainingSpan returns the whole days from now until end. A deadline
// strictly before now yields 0 even with addExtraDay. The start bound is
// accepted for symmetry with PreviewSpan and does not affect the result.
func RemainingSpan(_, end time.Time, addExtraDay bool, now time.Time) int {
	endMs, nowMs := end.UnixMilli(), now.UnixMilli()
	if endMs < nowMs {
		return 0
	}
	days := ceilDays(endMs - nowMs)
	if addExtraDay {
		days++
	}
	return max(days, 0)
}

// RemainingDays parses stored dates and computes the remaining span.
func RemainingDays(startDate, endDate string, addExtraDay bool, now time.Time) (int, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return 0, err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return 0, err
	}
	return RemainingSpan(start, end, addExtraDay, now), nil
}

// ceilDays divides ms by the day length, rounding toward positive infinity.
func ceilDays(ms int64) int {
	q := ms / MillisPerDay
	if ms%MillisPerDay > 0 {
		q++
	}
	return int(q)
}
