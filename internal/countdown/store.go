// Package countdown holds the signed-in user's ordered countdowns, keeps
// their remaining-day counts current and writes every membership change
// through to storage.
package countdown

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/daycount/internal/calculator"
	"github.com/julianstephens/daycount/internal/constants"
	"github.com/julianstephens/daycount/internal/logger"
	"github.com/julianstephens/daycount/internal/models"
)

// State is the store's authentication state.
type State int

const (
	Unauthenticated State = iota
	Loaded
)

func (s State) String() string {
	if s == Loaded {
		return "loaded"
	}
	return "unauthenticated"
}

// Persister is the part of storage.Provider the store needs.
type Persister interface {
	LoadCountdowns(identity string) ([]models.Countdown, bool, error)
	SaveCountdowns(identity string, list []models.Countdown) error
}

type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithInterval sets how often the refresh loop runs. Non-positive values
// keep the default.
func WithInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithIDGenerator replaces the UUIDv7 id source.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *Store) { s.newID = gen }
}

// OnChange registers fn to run after every bind, unbind, mutation and
// refresh. fn runs without the store lock held and may call back into it.
func OnChange(fn func()) Option {
	return func(s *Store) { s.onChange = fn }
}

// AddRequest is a save of a previewed span. PreviewTotalDays is the result
// of the preview the user saw; nil means no preview ran.
type AddRequest struct {
	Label            string
	StartDate        string
	EndDate          string
	AddExtraDay      bool
	PreviewTotalDays *int
}

type Store struct {
	mu        sync.Mutex
	persister Persister
	clock     func() time.Time
	interval  time.Duration
	newID     func() (string, error)
	onChange  func()

	state    State
	identity string
	list     []models.Countdown
	closed   bool
	// gen increments on every Bind and Unbind so a slow load can tell it
	// was superseded.
	gen uint64

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(p Persister, opts ...Option) *Store {
	s := &Store{
		persister: p,
		clock:     time.Now,
		interval:  constants.RefreshInterval,
		newID:     newUUID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Bind loads identity's list, refreshes it once and starts the refresh loop.
// Binding the identity that is already loaded is a no-op. Binding another
// identity replaces the previous one once its list has loaded; until then
// the previous list stays readable. On a load failure the store is left
// unauthenticated.
func (s *Store) Bind(ctx context.Context, identity string) error {
	if identity == "" {
		return ErrNotAuthorized
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state == Loaded && s.identity == identity {
		s.mu.Unlock()
		return nil
	}
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	// Remote backends may block for seconds, so load without holding mu.
	list, found, err := s.persister.LoadCountdowns(identity)

	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return ErrClosed
	case s.gen != gen:
		// A later Bind or Unbind won.
		s.mu.Unlock()
		logger.Debug("discarding superseded bind", "identity", identity)
		return nil
	}
	s.stopLocked()

	if err != nil {
		s.resetLocked()
		s.mu.Unlock()
		s.notify()
		return fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}
	if !found || list == nil {
		list = []models.Countdown{}
	}

	s.state = Loaded
	s.identity = identity
	s.list = list
	s.refreshLocked(s.clock())

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	go s.refreshLoop(loopCtx)
	s.mu.Unlock()

	logger.Debug("countdowns loaded", "identity", identity, "count", len(list))
	s.notify()
	return nil
}

// Unbind stops the refresh loop and drops the in-memory list. Stored data is
// left untouched. A Bind still loading is abandoned.
func (s *Store) Unbind() {
	s.mu.Lock()
	s.gen++
	wasLoaded := s.state == Loaded
	s.stopLocked()
	s.resetLocked()
	s.mu.Unlock()

	if wasLoaded {
		s.notify()
	}
}

// Close unbinds and waits for the refresh loop to exit. It is safe to call
// more than once.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.stopLocked()
	s.resetLocked()
	s.mu.Unlock()

	s.wg.Wait()
}

// Add validates req, recomputes its remaining days and appends it.
func (s *Store) Add(req AddRequest) (models.Countdown, error) {
	c, err := s.add(req)
	if err == nil {
		s.notify()
	}
	return c, err
}

func (s *Store) add(req AddRequest) (models.Countdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Loaded {
		return models.Countdown{}, ErrNotAuthorized
	}
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return models.Countdown{}, ErrEmptyLabel
	}
	if req.PreviewTotalDays == nil {
		return models.Countdown{}, ErrNoCalculationYet
	}
	start, end, err := calculator.ParseRange(req.StartDate, req.EndDate)
	if err != nil {
		if errors.Is(err, ErrInvalidRange) {
			return models.Countdown{}, err
		}
		return models.Countdown{}, fmt.Errorf("%w: %w", ErrInvalidRange, err)
	}

	id, err := s.newID()
	if err != nil {
		return models.Countdown{}, fmt.Errorf("failed to generate id: %w", err)
	}

	c := models.Countdown{
		ID:          id,
		Label:       label,
		StartDate:   start.Format(constants.DateFormat),
		EndDate:     end.Format(constants.DateFormat),
		AddExtraDay: req.AddExtraDay,
		TotalDays:   calculator.RemainingSpan(start, end, req.AddExtraDay, s.clock()),
	}

	next := append(models.CloneCountdowns(s.list), c)
	if err := s.commitLocked(next); err != nil {
		return models.Countdown{}, err
	}
	return c, nil
}

// Remove deletes the countdown with id. removed is false, and nothing is
// written, when no countdown has that id.
func (s *Store) Remove(id string) (removed bool, err error) {
	removed, err = s.remove(id)
	if removed {
		s.notify()
	}
	return removed, err
}

func (s *Store) remove(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Loaded {
		return false, ErrNotAuthorized
	}
	idx := -1
	for i, c := range s.list {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	next := make([]models.Countdown, 0, len(s.list)-1)
	next = append(next, s.list[:idx]...)
	next = append(next, s.list[idx+1:]...)
	if err := s.commitLocked(next); err != nil {
		return false, err
	}
	return true, nil
}

// Clear empties the list and writes the empty list, even if it was
// already empty.
func (s *Store) Clear() error {
	s.mu.Lock()
	if s.state != Loaded {
		s.mu.Unlock()
		return ErrNotAuthorized
	}
	err := s.commitLocked([]models.Countdown{})
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// RefreshAll recomputes every TotalDays against now. Membership and order
// are unchanged and nothing is written.
func (s *Store) RefreshAll(now time.Time) error {
	s.mu.Lock()
	if s.state != Loaded {
		s.mu.Unlock()
		return ErrNotAuthorized
	}
	s.refreshLocked(now)
	s.mu.Unlock()

	s.notify()
	return nil
}

// List returns a copy of the ordered countdowns, nil when unauthenticated.
func (s *Store) List() []models.Countdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Loaded {
		return nil
	}
	return models.CloneCountdowns(s.list)
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Identity returns the bound identity, empty when unauthenticated.
func (s *Store) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// commitLocked writes next and adopts it only when the write succeeds, so a
// failed write leaves memory matching what was last stored.
func (s *Store) commitLocked(next []models.Countdown) error {
	if err := s.persister.SaveCountdowns(s.identity, next); err != nil {
		logger.Error("failed to save countdowns", "identity", s.identity, "error", err)
		return fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}
	s.list = next
	return nil
}

func (s *Store) refreshLocked(now time.Time) {
	for i := range s.list {
		c := &s.list[i]
		days, err := calculator.RemainingDays(c.StartDate, c.EndDate, c.AddExtraDay, now)
		if err != nil {
			logger.Warn("skipping countdown with unreadable dates", "id", c.ID, "error", err)
			continue
		}
		c.TotalDays = days
	}
}

func (s *Store) stopLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Store) resetLocked() {
	s.state = Unauthenticated
	s.identity = ""
	s.list = nil
}

func (s *Store) refreshLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Store) tick(ctx context.Context) {
	s.mu.Lock()
	// cancel runs under mu, so a loop that lost its identity stops here
	if ctx.Err() != nil || s.state != Loaded {
		s.mu.Unlock()
		return
	}
	s.refreshLocked(s.clock())
	s.mu.Unlock()

	s.notify()
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}
