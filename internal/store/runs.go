package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"jobby-engine/internal/domain"
)

func (s *Store) CreateRun(ctx context.Context, paramsJSON string) (domain.Run, error) {
	run := domain.Run{
		Status:     domain.RunRunning,
		RunAt:      time.Now().UTC(),
		ParamsJSON: paramsJSON,
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (status, run_at, params) VALUES (?, ?, ?);`,
		string(run.Status), run.RunAt.Format(time.RFC3339), paramsJSON)
	if err != nil {
		return domain.Run{}, fmt.Errorf("insert run: %w", err)
	}
	run.ID, err = res.LastInsertId()
	if err != nil {
		return domain.Run{}, err
	}
	return run, nil
}

// UpdateRun writes back status, counters and the last error. Called after
// every query batch so partial progress is visible to pollers.
func (s *Store) UpdateRun(ctx context.Context, r domain.Run) error {
	_, err := s.db.ExecContext(ctx, `
UPDATE runs
SET status = ?, total_fetched = ?, new_jobs = ?, duplicates = ?, error_message = ?
WHERE id = ?;`,
		string(r.Status), r.TotalFetched, r.NewJobs, r.Duplicates, r.ErrorMessage, r.ID)
	if err != nil {
		return fmt.Errorf("update run %d: %w", r.ID, err)
	}
	return nil
}

func (s *Store) GetRun(ctx context.Context, id int64) (*domain.Run, error) {
	return s.findRun(ctx, `id = ?`, id)
}

// LatestRunByStatus returns the most recent run in the given status, or nil.
func (s *Store) LatestRunByStatus(ctx context.Context, status domain.RunStatus) (*domain.Run, error) {
	return s.findRun(ctx, `status = ?`, string(status))
}

func (s *Store) LatestRun(ctx context.Context) (*domain.Run, error) {
	return s.findRun(ctx, `1 = 1`)
}

func (s *Store) findRun(ctx context.Context, where string, args ...any) (*domain.Run, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, status, run_at, total_fetched, new_jobs, duplicates, error_message, params
FROM runs
WHERE `+where+`
ORDER BY run_at DESC, id DESC
LIMIT 1;`, args...)

	var (
		r      domain.Run
		status string
		runAt  string
	)
	err := row.Scan(&r.ID, &status, &runAt, &r.TotalFetched, &r.NewJobs, &r.Duplicates, &r.ErrorMessage, &r.ParamsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.Status = domain.RunStatus(status)
	r.RunAt, _ = time.Parse(time.RFC3339, runAt)
	return &r, nil
}
