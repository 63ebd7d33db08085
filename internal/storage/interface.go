package storage

import (
	"errors"

	"github.com/julianstephens/daycount/internal/constants"
	"github.com/julianstephens/daycount/internal/models"
)

// ErrNotLoaded is returned when a backend is used before Init or Load.
var ErrNotLoaded = errors.New("storage not loaded")

// Provider persists one ordered countdown list per identity. Backends derive
// their own key from the identity with Key, so callers never see the keying
// convention.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// LoadCountdowns returns the identity's list in insertion order.
	// found is false when nothing was ever saved for the identity, which is
	// distinct from a saved empty list.
	LoadCountdowns(identity string) (list []models.Countdown, found bool, err error)
	// SaveCountdowns replaces the identity's list, including with an empty one.
	SaveCountdowns(identity string, list []models.Countdown) error
	// ListIdentities returns every identity with a saved list.
	ListIdentities() ([]string, error)

	GetConfigPath() string
}

// Key is the persistence key for an identity's list: "countdowns_<identity>".
func Key(identity string) string {
	return constants.CountdownKeyPrefix + identity
}

// IdentityFromKey reverses Key. ok is false for keys without the prefix.
func IdentityFromKey(key string) (string, bool) {
	if len(key) <= len(constants.CountdownKeyPrefix) || key[:len(constants.CountdownKeyPrefix)] != constants.CountdownKeyPrefix {
		return "", false
	}
	return key[len(constants.CountdownKeyPrefix):], true
}
