package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/julianstephens/daycount/internal/models"
)

// document is the on-disk shape: every list keyed by its persistence key.
type document struct {
	Version     int                           `json:"version"`
	Collections map[string][]models.Countdown `json:"collections"`
}

// JSONStore keeps all lists in a single JSON file, rewritten on every save.
type JSONStore struct {
	mu   sync.RWMutex
	path string
	doc  *document
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.doc = &document{Version: 1, Collections: map[string][]models.Countdown{}}
	return s.save()
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'daycount init' first")
		}
		return fmt.Errorf("failed to read storage file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse storage file: %w", err)
	}
	if doc.Collections == nil {
		doc.Collections = map[string][]models.Countdown{}
	}
	s.doc = &doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) LoadCountdowns(identity string) ([]models.Countdown, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.doc == nil {
		return nil, false, ErrNotLoaded
	}
	list, ok := s.doc.Collections[Key(identity)]
	if !ok {
		return nil, false, nil
	}
	return models.CloneCountdowns(list), true, nil
}

func (s *JSONStore) SaveCountdowns(identity string, list []models.Countdown) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return ErrNotLoaded
	}
	key := Key(identity)
	prev, had := s.doc.Collections[key]
	s.doc.Collections[key] = models.CloneCountdowns(list)
	if err := s.save(); err != nil {
		if had {
			s.doc.Collections[key] = prev
		} else {
			delete(s.doc.Collections, key)
		}
		return err
	}
	return nil
}

func (s *JSONStore) ListIdentities() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	var ids []string
	for key := range s.doc.Collections {
		if id, ok := IdentityFromKey(key); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

// save writes to a temp file and renames it into place.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage file: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}
