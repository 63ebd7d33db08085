package countdowns

import (
	"bytes"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/daycount/internal/cli"
	"github.com/julianstephens/daycount/internal/countdown"
	"github.com/julianstephens/daycount/internal/identity"
	"github.com/julianstephens/daycount/internal/storage/sqlite"
)

var fixedNow = time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)

// syncBuffer lets the watch loop and the test share output.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func setupTestContext(t *testing.T, signedInAs string) (*cli.Context, *syncBuffer) {
	t.Helper()
	dir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(dir, "daycount.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	countdowns := countdown.New(store, countdown.WithClock(func() time.Time { return fixedNow }))
	t.Cleanup(func() {
		countdowns.Close()
		store.Close()
	})

	out := &syncBuffer{}
	return &cli.Context{
		Store:      store,
		Countdowns: countdowns,
		Session:    identity.NewStatic(signedInAs),
		ConfigDir:  dir,
		Out:        out,
	}, out
}

func addTrip(t *testing.T, ctx *cli.Context, label string) {
	t.Helper()
	cmd := &AddCmd{Label: label, Start: "2024-01-01", End: "2024-01-10"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("add %q failed: %v", label, err)
	}
}
