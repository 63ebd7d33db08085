package identity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/julianstephens/daycount/internal/keyring"
	"github.com/julianstephens/daycount/internal/logger"
)

// Keyring persists the signed-in identity in the OS keyring so it survives
// across invocations.
type Keyring struct {
	hub

	// lastMu serializes keyring writes with Watch polls so a change made
	// here is recorded in last before Watch can observe it.
	lastMu sync.Mutex
	last   string
}

func NewKeyring() *Keyring {
	return &Keyring{}
}

func (k *Keyring) Current() (string, bool) {
	id, err := keyring.GetIdentity()
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("failed to read identity from keyring", "error", err)
		}
		return "", false
	}
	return id, id != ""
}

func (k *Keyring) SignIn(identity string) error {
	normalized, err := Normalize(identity)
	if err != nil {
		return err
	}
	k.lastMu.Lock()
	err = keyring.SetIdentity(normalized)
	if err == nil {
		k.last = normalized
	}
	k.lastMu.Unlock()
	if err != nil {
		return err
	}
	logger.Info("signed in", "identity", normalized)
	k.publish(Event{Kind: SignedIn, Identity: normalized})
	return nil
}

func (k *Keyring) SignOut() error {
	k.lastMu.Lock()
	err := keyring.DeleteIdentity()
	if err == nil {
		k.last = ""
	}
	k.lastMu.Unlock()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotSignedIn
		}
		return err
	}
	logger.Info("signed out")
	k.publish(Event{Kind: SignedOut})
	return nil
}

// Watch polls the keyring until ctx is done and publishes an event whenever
// another process signs in or out. Changes made through this Keyring are
// already published by SignIn and SignOut and are not repeated.
func (k *Keyring) Watch(ctx context.Context, interval time.Duration) {
	k.lastMu.Lock()
	k.last, _ = k.Current()
	k.lastMu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ev, changed := k.poll(); changed {
				k.publish(ev)
			}
		}
	}
}

func (k *Keyring) poll() (Event, bool) {
	k.lastMu.Lock()
	defer k.lastMu.Unlock()

	cur, _ := k.Current()
	if cur == k.last {
		return Event{}, false
	}
	k.last = cur
	if cur == "" {
		return Event{Kind: SignedOut}, true
	}
	return Event{Kind: SignedIn, Identity: cur}, true
}
