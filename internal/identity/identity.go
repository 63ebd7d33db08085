// Package identity supplies the signed-in user's stable identifier and
// announces sign-in and sign-out transitions.
package identity

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
)

// EventKind distinguishes sign-in from sign-out.
type EventKind int

const (
	SignedIn EventKind = iota
	SignedOut
)

func (k EventKind) String() string {
	switch k {
	case SignedIn:
		return "signed-in"
	case SignedOut:
		return "signed-out"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers on every identity transition.
// Identity is empty for SignedOut.
type Event struct {
	Kind     EventKind
	Identity string
}

// Provider exposes the current identity and a subscription to transitions.
type Provider interface {
	Current() (string, bool)
	Subscribe(fn func(Event)) (unsubscribe func())
}

// Session is a Provider the user can sign in to and out of.
type Session interface {
	Provider
	SignIn(identity string) error
	SignOut() error
}

var (
	ErrInvalidIdentity = errors.New("identity must be a valid email address")
	ErrNotSignedIn     = errors.New("not signed in")
)

// Normalize validates an email-style identity and returns it trimmed and
// lower-cased so the same user always maps to the same storage key.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidIdentity)
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}
	if addr.Name != "" || addr.Address != trimmed {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentity, raw)
	}
	return strings.ToLower(addr.Address), nil
}

// hub fans events out to subscribers. Callbacks run outside the lock so a
// subscriber may unsubscribe or query the provider from inside its callback.
type hub struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Event)
}

func (h *hub) Subscribe(fn func(Event)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs == nil {
		h.subs = make(map[int]func(Event))
	}
	id := h.next
	h.next++
	h.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

func (h *hub) publish(e Event) {
	h.mu.Lock()
	fns := make([]func(Event), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
