package identity

import "sync"

// Static holds the identity in memory. It backs the --as override and tests.
type Static struct {
	hub
	idMu     sync.RWMutex
	identity string
}

// NewStatic returns a provider signed in as identity, or signed out when
// identity is empty.
func NewStatic(identity string) *Static {
	return &Static{identity: identity}
}

func (s *Static) Current() (string, bool) {
	s.idMu.RLock()
	defer s.idMu.RUnlock()
	return s.identity, s.identity != ""
}

func (s *Static) SignIn(identity string) error {
	normalized, err := Normalize(identity)
	if err != nil {
		return err
	}
	s.idMu.Lock()
	s.identity = normalized
	s.idMu.Unlock()
	s.publish(Event{Kind: SignedIn, Identity: normalized})
	return nil
}

func (s *Static) SignOut() error {
	s.idMu.Lock()
	was := s.identity
	s.identity = ""
	s.idMu.Unlock()
	if was == "" {
		return ErrNotSignedIn
	}
	s.publish(Event{Kind: SignedOut})
	return nil
}
