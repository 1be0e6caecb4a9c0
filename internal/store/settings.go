package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"jobby-engine/internal/domain"
)

// GetProfile returns the singleton profile, or a zero profile when the user
// hasn't configured one yet.
func (s *Store) GetProfile(ctx context.Context) (domain.Profile, error) {
	var p domain.Profile
	err := s.getSingleton(ctx, "profile", &p)
	if err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

func (s *Store) SaveProfile(ctx context.Context, p domain.Profile) error {
	return s.saveSingleton(ctx, "profile", p.Normalize())
}

// GetSettings returns the singleton settings. A missing row falls back to
// the documented defaults so scoring always has a full weight vector.
func (s *Store) GetSettings(ctx context.Context) (domain.Settings, error) {
	set := domain.DefaultSettings()
	if err := s.getSingleton(ctx, "settings", &set); err != nil {
		return domain.Settings{}, err
	}
	if set.MinScore <= 0 {
		set.MinScore = domain.DefaultSettings().MinScore
	}
	if set.CronSchedule == "" {
		set.CronSchedule = domain.DefaultSettings().CronSchedule
	}
	return set, nil
}

func (s *Store) SaveSettings(ctx context.Context, set domain.Settings) error {
	return s.saveSingleton(ctx, "settings", set)
}

func (s *Store) getSingleton(ctx context.Context, table string, v any) error {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM `+table+` WHERE id = 1;`).Scan(&data)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", table, err)
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("decode %s: %w", table, err)
	}
	return nil
}

func (s *Store) saveSingleton(ctx context.Context, table string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", table, err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO `+table+` (id, data) VALUES (1, ?)
ON CONFLICT(id) DO UPDATE SET data = excluded.data;`, string(data))
	if err != nil {
		return fmt.Errorf("write %s: %w", table, err)
	}
	return nil
}
