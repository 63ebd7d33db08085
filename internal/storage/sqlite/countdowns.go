package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/daycount/internal/models"
	"github.com/julianstephens/daycount/internal/storage"
)

func (s *Store) LoadCountdowns(identity string) ([]models.Countdown, bool, error) {
	if s.db == nil {
		return nil, false, storage.ErrNotLoaded
	}
	key := storage.Key(identity)

	var updatedAt string
	err := s.db.QueryRow("SELECT updated_at FROM collections WHERE owner_key = ?", key).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read collection: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT id, label, start_date, end_date, add_extra_day, total_days
		FROM countdowns
		WHERE owner_key = ?
		ORDER BY position`, key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query countdowns: %w", err)
	}
	defer rows.Close()

	list := []models.Countdown{}
	for rows.Next() {
		var c models.Countdown
		var extra int
		if err := rows.Scan(&c.ID, &c.Label, &c.StartDate, &c.EndDate, &extra, &c.TotalDays); err != nil {
			return nil, false, fmt.Errorf("failed to scan countdown: %w", err)
		}
		c.AddExtraDay = extra != 0
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return list, true, nil
}

func (s *Store) SaveCountdowns(identity string, list []models.Countdown) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	key := storage.Key(identity)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
		INSERT INTO collections (owner_key, updated_at) VALUES (?, ?)
		ON CONFLICT(owner_key) DO UPDATE SET updated_at = excluded.updated_at`,
		key, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to upsert collection: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM countdowns WHERE owner_key = ?", key); err != nil {
		return fmt.Errorf("failed to clear countdowns: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO countdowns (owner_key, position, id, label, start_date, end_date, add_extra_day, total_days)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range list {
		extra := 0
		if c.AddExtraDay {
			extra = 1
		}
		if _, err := stmt.Exec(key, i, c.ID, c.Label, c.StartDate, c.EndDate, extra, c.TotalDays); err != nil {
			return fmt.Errorf("failed to insert countdown %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

func (s *Store) ListIdentities() ([]string, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}
	rows, err := s.db.Query("SELECT owner_key FROM collections ORDER BY owner_key")
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		if id, ok := storage.IdentityFromKey(key); ok {
			ids = append(ids, id)
		}
	}
	return ids, rows.Err()
}
