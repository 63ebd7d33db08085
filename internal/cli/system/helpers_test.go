package system

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/julianstephens/daycount/internal/cli"
	"github.com/julianstephens/daycount/internal/countdown"
	"github.com/julianstephens/daycount/internal/identity"
	"github.com/julianstephens/daycount/internal/storage/sqlite"
)

// setupTestContext returns a context over an initialized SQLite store in a
// temp directory, signed in as ada@example.com.
func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(dir, "daycount.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	countdowns := countdown.New(store)
	t.Cleanup(func() {
		countdowns.Close()
		store.Close()
	})

	out := &bytes.Buffer{}
	return &cli.Context{
		Store:      store,
		Countdowns: countdowns,
		Session:    identity.NewStatic("ada@example.com"),
		ConfigDir:  dir,
		Out:        out,
	}, out
}
