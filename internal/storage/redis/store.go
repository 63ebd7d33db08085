// Package redis keeps each identity's countdown list as a JSON value under
// its persistence key.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/julianstephens/daycount/internal/constants"
	"github.com/julianstephens/daycount/internal/models"
	"github.com/julianstephens/daycount/internal/storage"
)

// markerKey records that init ran against this server.
const markerKey = constants.AppName + ":initialized"

type Store struct {
	url string
	rdb *goredis.Client
}

func New(url string) *Store {
	return &Store{url: url}
}

// IsConnString reports whether s is a redis:// or rediss:// URL.
func IsConnString(s string) bool {
	return strings.HasPrefix(s, "redis://") || strings.HasPrefix(s, "rediss://")
}

func (s *Store) connect() error {
	opts, err := goredis.ParseURL(s.url)
	if err != nil {
		return fmt.Errorf("invalid redis URL: %w", err)
	}
	rdb := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), constants.RemoteTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("redis ping: %w", err)
	}
	s.rdb = rdb
	return nil
}

func (s *Store) Init() error {
	if s.rdb == nil {
		if err := s.connect(); err != nil {
			return err
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.RemoteTimeout)
	defer cancel()
	return s.rdb.Set(ctx, markerKey, constants.Version, 0).Err()
}

func (s *Store) Load() error {
	if s.rdb != nil {
		return nil
	}
	if err := s.connect(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.RemoteTimeout)
	defer cancel()
	n, err := s.rdb.Exists(ctx, markerKey).Result()
	if err != nil {
		return fmt.Errorf("redis exists: %w", err)
	}
	if n == 0 {
		_ = s.Close()
		return fmt.Errorf("storage not initialized, run 'daycount init' first")
	}
	return nil
}

func (s *Store) Close() error {
	if s.rdb == nil {
		return nil
	}
	err := s.rdb.Close()
	s.rdb = nil
	return err
}

func (s *Store) LoadCountdowns(identity string) ([]models.Countdown, bool, error) {
	if s.rdb == nil {
		return nil, false, storage.ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.RemoteTimeout)
	defer cancel()

	b, err := s.rdb.Get(ctx, storage.Key(identity)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	list := []models.Countdown{}
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, false, fmt.Errorf("failed to decode countdowns: %w", err)
	}
	return list, true, nil
}

func (s *Store) SaveCountdowns(identity string, list []models.Countdown) error {
	if s.rdb == nil {
		return storage.ErrNotLoaded
	}
	if list == nil {
		list = []models.Countdown{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode countdowns: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.RemoteTimeout)
	defer cancel()
	if err := s.rdb.Set(ctx, storage.Key(identity), b, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *Store) ListIdentities() ([]string, error) {
	if s.rdb == nil {
		return nil, storage.ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.RemoteTimeout)
	defer cancel()

	var ids []string
	iter := s.rdb.Scan(ctx, 0, constants.CountdownKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if id, ok := storage.IdentityFromKey(iter.Val()); ok {
			ids = append(ids, id)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) GetConfigPath() string {
	return "redis"
}
