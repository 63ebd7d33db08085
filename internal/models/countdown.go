package models

import (
	"fmt"

	"github.com/julianstephens/daycount/internal/constants"
)

// Countdown is a labeled date span owned by one identity. TotalDays is
// derived from EndDate, AddExtraDay and the current time; it is a cache for
// display and never authoritative.
type Countdown struct {
	ID          string `json:"id" bson:"id"`
	Label       string `json:"label" bson:"label"`
	StartDate   string `json:"startDate" bson:"startDate"` // YYYY-MM-DD, inclusive
	EndDate     string `json:"endDate" bson:"endDate"`     // YYYY-MM-DD, inclusive
	AddExtraDay bool   `json:"addExtraDay" bson:"addExtraDay"`
	TotalDays   int    `json:"totalDays" bson:"totalDays"`
}

// Completed reports whether the countdown has run out.
func (c Countdown) Completed() bool {
	return c.TotalDays == 0
}

// Remaining renders TotalDays the way lists show it.
func (c Countdown) Remaining() string {
	switch c.TotalDays {
	case 0:
		return constants.MsgDaysCompleted
	case 1:
		return "1 day left"
	default:
		return fmt.Sprintf("%d days left", c.TotalDays)
	}
}

// Span renders the date range, noting the extra day when set.
func (c Countdown) Span() string {
	s := c.StartDate + " → " + c.EndDate
	if c.AddExtraDay {
		s += " (" + constants.MsgExtraDayIncluded + ")"
	}
	return s
}

// Summary renders the saved-count line shown under a list of countdowns.
func Summary(n int) string {
	switch n {
	case 0:
		return constants.MsgNoCountdowns
	case 1:
		return "1 countdown saved"
	default:
		return fmt.Sprintf("%d countdowns saved", n)
	}
}

// CloneCountdowns returns a copy that callers may modify freely.
func CloneCountdowns(list []Countdown) []Countdown {
	out := make([]Countdown, len(list))
	copy(out, list)
	return out
}
