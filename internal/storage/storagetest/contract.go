// Package storagetest holds behaviour every storage.Provider must share.
package storagetest

import (
	"reflect"
	"sort"
	"testing"

	"github.com/julianstephens/daycount/internal/models"
	"github.com/julianstephens/daycount/internal/storage"
)

// Sample returns a small ordered list for round-trip checks.
func Sample() []models.Countdown {
	return []models.Countdown{
		{ID: "01", Label: "Vacation", StartDate: "2024-01-01", EndDate: "2024-01-10", AddExtraDay: false, TotalDays: 9},
		{ID: "02", Label: "Exam", StartDate: "2024-02-01", EndDate: "2024-02-15", AddExtraDay: true, TotalDays: 15},
		{ID: "03", Label: "Launch", StartDate: "2024-03-01", EndDate: "2024-03-01", AddExtraDay: false, TotalDays: 0},
	}
}

// RunProviderContract exercises an initialized, loaded provider. identities
// are namespaced with prefix so shared remote stores can run it repeatedly.
func RunProviderContract(t *testing.T, p storage.Provider, prefix string) {
	t.Helper()
	alice := prefix + "alice@example.com"
	bob := prefix + "bob@example.com"

	t.Run("absent identity", func(t *testing.T) {
		list, found, err := p.LoadCountdowns(prefix + "nobody@example.com")
		if err != nil {
			t.Fatalf("LoadCountdowns() failed: %v", err)
		}
		if found || len(list) != 0 {
			t.Errorf("LoadCountdowns() = (%v, %v), want absent", list, found)
		}
	})

	t.Run("round trip preserves order", func(t *testing.T) {
		want := Sample()
		if err := p.SaveCountdowns(alice, want); err != nil {
			t.Fatalf("SaveCountdowns() failed: %v", err)
		}
		got, found, err := p.LoadCountdowns(alice)
		if err != nil {
			t.Fatalf("LoadCountdowns() failed: %v", err)
		}
		if !found {
			t.Fatal("LoadCountdowns() reported absent after save")
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("LoadCountdowns() = %+v, want %+v", got, want)
		}
	})

	t.Run("identities are isolated", func(t *testing.T) {
		if err := p.SaveCountdowns(bob, Sample()[:1]); err != nil {
			t.Fatalf("SaveCountdowns() failed: %v", err)
		}
		got, _, err := p.LoadCountdowns(alice)
		if err != nil {
			t.Fatalf("LoadCountdowns() failed: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("saving bob changed alice's list: %d items", len(got))
		}
	})

	t.Run("save replaces", func(t *testing.T) {
		want := Sample()[1:]
		if err := p.SaveCountdowns(alice, want); err != nil {
			t.Fatalf("SaveCountdowns() failed: %v", err)
		}
		got, _, err := p.LoadCountdowns(alice)
		if err != nil {
			t.Fatalf("LoadCountdowns() failed: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("LoadCountdowns() = %+v, want %+v", got, want)
		}
	})

	t.Run("empty list is stored", func(t *testing.T) {
		if err := p.SaveCountdowns(alice, []models.Countdown{}); err != nil {
			t.Fatalf("SaveCountdowns(empty) failed: %v", err)
		}
		got, found, err := p.LoadCountdowns(alice)
		if err != nil {
			t.Fatalf("LoadCountdowns() failed: %v", err)
		}
		if !found {
			t.Error("empty list should still be found")
		}
		if len(got) != 0 {
			t.Errorf("LoadCountdowns() = %+v, want empty", got)
		}
	})

	t.Run("list identities", func(t *testing.T) {
		ids, err := p.ListIdentities()
		if err != nil {
			t.Fatalf("ListIdentities() failed: %v", err)
		}
		seen := map[string]bool{}
		for _, id := range ids {
			seen[id] = true
		}
		if !seen[alice] || !seen[bob] {
			t.Errorf("ListIdentities() = %v, want it to include %s and %s", ids, alice, bob)
		}
		if !sort.StringsAreSorted(ids) {
			t.Errorf("ListIdentities() = %v, want sorted", ids)
		}
	})
}
