package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/daycount/internal/calculator"
	"github.com/julianstephens/daycount/internal/constants"
	"github.com/julianstephens/daycount/internal/models"
)

// Conflict is one problem found in a stored countdown list
type Conflict struct {
	Type        constants.ConflictType
	Description string
	IDs         []string // IDs of countdowns involved
	Fixable     bool
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction describes one change made by Fix
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		b.WriteString("- " + c.Description)
		if c.Fixable {
			b.WriteString(" (fixable)")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Validator checks stored countdowns against the invariants the store
// enforces on creation. Data written by other tools or older versions may
// break them.
type Validator struct {
	now func() time.Time
}

func New() *Validator {
	return &Validator{now: time.Now}
}

// ValidateCountdowns checks list for duplicate ids, blank labels, bad or
// inverted dates and totals that disagree with a fresh computation.
func (v *Validator) ValidateCountdowns(list []models.Countdown) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	now := v.now()

	positions := make(map[string][]int)
	var order []string
	for i, c := range list {
		if _, seen := positions[c.ID]; !seen {
			order = append(order, c.ID)
		}
		positions[c.ID] = append(positions[c.ID], i)
	}
	for _, id := range order {
		if n := len(positions[id]); n > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictDuplicateID,
				Description: fmt.Sprintf("Duplicate countdown ID %q appears %d times", id, n),
				IDs:         []string{id},
				Fixable:     true,
			})
		}
	}

	for _, c := range list {
		name := describe(c)

		if strings.TrimSpace(c.Label) == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictBlankLabel,
				Description: fmt.Sprintf("Countdown %s has a blank label", c.ID),
				IDs:         []string{c.ID},
			})
		}
		if c.TotalDays < 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictNegativeTotal,
				Description: fmt.Sprintf("Countdown %s has a negative total: %d", name, c.TotalDays),
				IDs:         []string{c.ID},
				Fixable:     true,
			})
		}

		_, _, err := calculator.ParseRange(c.StartDate, c.EndDate)
		switch {
		case errors.Is(err, calculator.ErrInvalidRange):
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictInvertedRange,
				Description: fmt.Sprintf("Countdown %s starts after it ends: %s", name, c.Span()),
				IDs:         []string{c.ID},
			})
			continue
		case err != nil:
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictInvalidDate,
				Description: fmt.Sprintf("Countdown %s has unreadable dates: %v", name, err),
				IDs:         []string{c.ID},
			})
			continue
		}

		want, _ := calculator.RemainingDays(c.StartDate, c.EndDate, c.AddExtraDay, now)
		if c.TotalDays >= 0 && c.TotalDays != want {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictStaleTotal,
				Description: fmt.Sprintf("Countdown %s stores %d days, currently %d", name, c.TotalDays, want),
				IDs:         []string{c.ID},
				Fixable:     true,
			})
		}
	}

	return result
}

// Fix returns a repaired copy of list: duplicates keep their first
// occurrence and totals are recomputed. Conflicts that need a human
// decision are left alone.
func (v *Validator) Fix(list []models.Countdown, conflicts []Conflict) ([]models.Countdown, []FixAction) {
	actions := []FixAction{}
	now := v.now()

	fixed := models.CloneCountdowns(list)
	for _, conflict := range conflicts {
		if !conflict.Fixable || len(conflict.IDs) == 0 {
			continue
		}
		id := conflict.IDs[0]

		switch conflict.Type {
		case constants.ConflictDuplicateID:
			kept := fixed[:0:0]
			removed := 0
			seen := false
			for _, c := range fixed {
				if c.ID == id {
					if seen {
						removed++
						continue
					}
					seen = true
				}
				kept = append(kept, c)
			}
			fixed = kept
			if removed > 0 {
				actions = append(actions, FixAction{
					Action:         fmt.Sprintf("Removed %d duplicate(s) of countdown %s (kept the first)", removed, id),
					SourceConflict: conflict,
				})
			}

		case constants.ConflictStaleTotal, constants.ConflictNegativeTotal:
			for i := range fixed {
				c := &fixed[i]
				if c.ID != id {
					continue
				}
				days, err := calculator.RemainingDays(c.StartDate, c.EndDate, c.AddExtraDay, now)
				if err != nil || days == c.TotalDays {
					continue
				}
				actions = append(actions, FixAction{
					Action:         fmt.Sprintf("Recomputed %s: %d -> %d days", describe(*c), c.TotalDays, days),
					SourceConflict: conflict,
				})
				c.TotalDays = days
			}
		}
	}

	return fixed, actions
}

func describe(c models.Countdown) string {
	if strings.TrimSpace(c.Label) == "" {
		return c.ID
	}
	return fmt.Sprintf("%q (%s)", c.Label, c.ID)
}
