package postgres

import (
	"os"
	"testing"

	"github.com/julianstephens/daycount/internal/storage/storagetest"
)

// TestStore_Integration runs the provider contract against a real database.
// Set POSTGRES_TEST_URL to run it, e.g.
// POSTGRES_TEST_URL="postgres://daycount_user@localhost:5432/daycount_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	// Shared databases may hold other runs' data, so identities are namespaced.
	storagetest.RunProviderContract(t, store, t.Name()+"-")

	t.Run("SchemaStatus", func(t *testing.T) {
		current, pending, err := store.SchemaStatus()
		if err != nil {
			t.Fatalf("SchemaStatus() failed: %v", err)
		}
		if current < 1 || pending != 0 {
			t.Errorf("SchemaStatus() = (%d, %d), want applied with nothing pending", current, pending)
		}
	})
}
