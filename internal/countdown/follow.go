package countdown

import (
	"context"

	"github.com/julianstephens/daycount/internal/identity"
	"github.com/julianstephens/daycount/internal/logger"
)

// Follow binds the store to the provider's current identity, if any, and
// then rebinds or unbinds on every sign-in and sign-out. The returned func
// stops following; it does not unbind.
func (s *Store) Follow(ctx context.Context, p identity.Provider) (stop func(), err error) {
	if id, ok := p.Current(); ok {
		if err := s.Bind(ctx, id); err != nil {
			return nil, err
		}
	}

	unsubscribe := p.Subscribe(func(ev identity.Event) {
		switch ev.Kind {
		case identity.SignedIn:
			if err := s.Bind(ctx, ev.Identity); err != nil {
				logger.Error("failed to load countdowns after sign-in", "identity", ev.Identity, "error", err)
			}
		case identity.SignedOut:
			s.Unbind()
		}
	})
	return unsubscribe, nil
}
