package identity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/daycount/internal/keyring"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain address", "ada@example.com", "ada@example.com", false},
		{"surrounding space", "  ada@example.com ", "ada@example.com", false},
		{"mixed case", "Ada@Example.COM", "ada@example.com", false},
		{"empty", "   ", "", true},
		{"no at sign", "ada", "", true},
		{"display name", "Ada <ada@example.com>", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidIdentity) {
				t.Errorf("Normalize(%q) error = %v, want ErrInvalidIdentity", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStaticEvents(t *testing.T) {
	p := NewStatic("")
	if _, ok := p.Current(); ok {
		t.Fatal("NewStatic(\"\") should start signed out")
	}

	var events []Event
	unsubscribe := p.Subscribe(func(e Event) { events = append(events, e) })

	if err := p.SignIn("ada@example.com"); err != nil {
		t.Fatalf("SignIn() failed: %v", err)
	}
	if id, ok := p.Current(); !ok || id != "ada@example.com" {
		t.Errorf("Current() = (%q, %v), want (ada@example.com, true)", id, ok)
	}
	if err := p.SignOut(); err != nil {
		t.Fatalf("SignOut() failed: %v", err)
	}
	if err := p.SignOut(); !errors.Is(err, ErrNotSignedIn) {
		t.Errorf("second SignOut() error = %v, want %v", err, ErrNotSignedIn)
	}

	unsubscribe()
	_ = p.SignIn("bob@example.com")

	want := []Event{{Kind: SignedIn, Identity: "ada@example.com"}, {Kind: SignedOut}}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(want), events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event[%d] = %+v, want %+v", i, events[i], want[i])
		}
	}
}

func TestKeyringSignInOut(t *testing.T) {
	gokeyring.MockInit()

	p := NewKeyring()
	var got []Event
	p.Subscribe(func(e Event) { got = append(got, e) })

	if err := p.SignIn("Ada@Example.com"); err != nil {
		t.Fatalf("SignIn() failed: %v", err)
	}
	id, ok := p.Current()
	if !ok || id != "ada@example.com" {
		t.Errorf("Current() = (%q, %v), want (ada@example.com, true)", id, ok)
	}

	stored, err := keyring.GetIdentity()
	if err != nil || stored != "ada@example.com" {
		t.Errorf("keyring.GetIdentity() = (%q, %v), want stored identity", stored, err)
	}

	if err := p.SignOut(); err != nil {
		t.Fatalf("SignOut() failed: %v", err)
	}
	if _, ok := p.Current(); ok {
		t.Error("Current() reports signed in after SignOut()")
	}
	if err := p.SignOut(); !errors.Is(err, ErrNotSignedIn) {
		t.Errorf("SignOut() while signed out error = %v, want %v", err, ErrNotSignedIn)
	}

	if len(got) != 2 || got[0].Kind != SignedIn || got[1].Kind != SignedOut {
		t.Errorf("events = %+v, want sign-in then sign-out", got)
	}
}

func TestKeyringSignInRejectsInvalid(t *testing.T) {
	gokeyring.MockInit()

	p := NewKeyring()
	if err := p.SignIn("not-an-email"); !errors.Is(err, ErrInvalidIdentity) {
		t.Errorf("SignIn() error = %v, want %v", err, ErrInvalidIdentity)
	}
	if _, ok := p.Current(); ok {
		t.Error("invalid SignIn() should not store an identity")
	}
}

func TestKeyringWatchDetectsExternalChange(t *testing.T) {
	gokeyring.MockInit()

	p := NewKeyring()
	var mu sync.Mutex
	var got []Event
	p.Subscribe(func(e Event) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Watch(ctx, 5*time.Millisecond)
		close(done)
	}()

	// Another process signs in behind our back.
	if err := keyring.SetIdentity("ada@example.com"); err != nil {
		t.Fatalf("SetIdentity() failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(got) == 0 {
		t.Fatal("Watch() did not publish the external sign-in")
	}
	if got[0] != (Event{Kind: SignedIn, Identity: "ada@example.com"}) {
		t.Errorf("first event = %+v, want sign-in for ada@example.com", got[0])
	}
}

func TestKeyringWatchSkipsOwnChanges(t *testing.T) {
	gokeyring.MockInit()

	p := NewKeyring()
	var mu sync.Mutex
	var got []Event
	p.Subscribe(func(e Event) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	})
	events := func() []Event {
		mu.Lock()
		defer mu.Unlock()
		return append([]Event(nil), got...)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Watch(ctx, 2*time.Millisecond)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	if err := p.SignIn("ada@example.com"); err != nil {
		t.Fatalf("SignIn() failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if err := p.SignOut(); err != nil {
		t.Fatalf("SignOut() failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	want := []Event{{Kind: SignedIn, Identity: "ada@example.com"}, {Kind: SignedOut}}
	if ev := events(); len(ev) != len(want) || ev[0] != want[0] || ev[1] != want[1] {
		t.Fatalf("events = %+v, want %+v", ev, want)
	}

	// Changes from elsewhere are still reported.
	if err := keyring.SetIdentity("bob@example.com"); err != nil {
		t.Fatalf("SetIdentity() failed: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for len(events()) < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	ev := events()
	if len(ev) != 3 || ev[2] != (Event{Kind: SignedIn, Identity: "bob@example.com"}) {
		t.Errorf("events = %+v, want a sign-in for bob@example.com last", ev)
	}
}
