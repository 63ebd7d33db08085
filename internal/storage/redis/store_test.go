package redis

import (
	"errors"
	"os"
	"testing"

	"github.com/julianstephens/daycount/internal/storage"
	"github.com/julianstephens/daycount/internal/storage/storagetest"
)

func TestIsConnString(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"redis://localhost:6379/0", true},
		{"rediss://cache.internal:6380", true},
		{"postgres://localhost/db", false},
		{"/tmp/daycount.db", false},
	}
	for _, tt := range tests {
		if got := IsConnString(tt.in); got != tt.want {
			t.Errorf("IsConnString(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInvalidURL(t *testing.T) {
	s := New("not-a-redis-url")
	if err := s.Init(); err == nil {
		t.Error("Init() with invalid URL should fail")
	}
}

func TestOperationsBeforeLoad(t *testing.T) {
	s := New("redis://localhost:6379/0")
	if _, _, err := s.LoadCountdowns("ada@example.com"); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("LoadCountdowns() error = %v, want %v", err, storage.ErrNotLoaded)
	}
	if err := s.SaveCountdowns("ada@example.com", nil); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("SaveCountdowns() error = %v, want %v", err, storage.ErrNotLoaded)
	}
	if _, err := s.ListIdentities(); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("ListIdentities() error = %v, want %v", err, storage.ErrNotLoaded)
	}
}

// TestStore_Integration runs the provider contract against a real server.
// Set REDIS_TEST_URL to run it, e.g. REDIS_TEST_URL="redis://localhost:6379/15"
func TestStore_Integration(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set, skipping Redis integration test")
	}

	s := New(url)
	if err := s.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer s.Close()

	storagetest.RunProviderContract(t, s, t.Name()+"-")

	reopened := New(url)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() after Init failed: %v", err)
	}
	reopened.Close()
}
