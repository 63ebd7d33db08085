package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestConnectionStringRoundTrip(t *testing.T) {
	gokeyring.MockInit()

	connStr := "postgres://daycount@localhost:5432/daycount?sslmode=disable"
	if err := SetConnectionString(connStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	got, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if got != connStr {
		t.Errorf("GetConnectionString() = %q, want %q", got, connStr)
	}

	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString() after delete error = %v, want %v", err, ErrNotFound)
	}
}

func TestSetConnectionStringEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString(""); err == nil {
		t.Error("SetConnectionString(\"\") should return an error")
	}
}

func TestIdentityRoundTrip(t *testing.T) {
	gokeyring.MockInit()

	if _, err := GetIdentity(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetIdentity() on empty keyring error = %v, want %v", err, ErrNotFound)
	}

	if err := SetIdentity("ada@example.com"); err != nil {
		t.Fatalf("SetIdentity() failed: %v", err)
	}
	got, err := GetIdentity()
	if err != nil {
		t.Fatalf("GetIdentity() failed: %v", err)
	}
	if got != "ada@example.com" {
		t.Errorf("GetIdentity() = %q, want %q", got, "ada@example.com")
	}

	if err := DeleteIdentity(); err != nil {
		t.Fatalf("DeleteIdentity() failed: %v", err)
	}
	if err := DeleteIdentity(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteIdentity() error = %v, want %v", err, ErrNotFound)
	}
}

func TestIdentityAndConnectionAreSeparate(t *testing.T) {
	gokeyring.MockInit()

	if err := SetIdentity("ada@example.com"); err != nil {
		t.Fatalf("SetIdentity() failed: %v", err)
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
}

func TestSetIdentityEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetIdentity(""); err == nil {
		t.Error("SetIdentity(\"\") should return an error")
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false with mock keyring, want true")
	}
}

func TestKeyringUnavailable(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("dbus not running"))
	defer gokeyring.MockInit()

	if _, err := GetIdentity(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("GetIdentity() error = %v, want %v", err, ErrKeyringUnavailable)
	}
	if IsAvailable() {
		t.Error("IsAvailable() = true with failing keyring, want false")
	}
}
