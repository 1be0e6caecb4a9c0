package store

import (
	"context"
	"fmt"
	"strings"

	"jobby-engine/internal/domain"
)

// UpsertMatch inserts or refreshes the score for one (run, listing) pair.
// Idempotent, so concurrent runs racing on the same pair converge.
func (s *Store) UpsertMatch(ctx context.Context, m domain.Match) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO matches (run_id, listing_id, score, rank)
VALUES (?, ?, ?, ?)
ON CONFLICT(run_id, listing_id) DO UPDATE SET score = excluded.score, rank = excluded.rank;`,
		m.RunID, m.ListingID, m.Score, m.Rank)
	if err != nil {
		return fmt.Errorf("upsert match run=%d listing=%d: %w", m.RunID, m.ListingID, err)
	}
	return nil
}

// RankedMatch is a match joined with its listing, for the recommended view.
type RankedMatch struct {
	domain.Listing
	Score int `json:"score"`
	Rank  int `json:"rank"`
}

// MatchesByRun returns a run's matches best-first, ignored listings excluded.
func (s *Store) MatchesByRun(ctx context.Context, runID int64, limit, offset int) ([]RankedMatch, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT `+prefixCols("l", listingCols)+`, m.score, m.rank
FROM matches m
JOIN listings l ON l.id = m.listing_id
WHERE m.run_id = ? AND l.ignored = 0
ORDER BY m.rank ASC, m.score DESC
LIMIT ? OFFSET ?;`, runID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RankedMatch
	for rows.Next() {
		var rm RankedMatch
		l, err := scanListing(rows, &rm.Score, &rm.Rank)
		if err != nil {
			return nil, err
		}
		rm.Listing = *l
		out = append(out, rm)
	}
	return out, rows.Err()
}

func (s *Store) CountMatchesByRun(ctx context.Context, runID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM matches m
JOIN listings l ON l.id = m.listing_id
WHERE m.run_id = ? AND l.ignored = 0;`, runID).Scan(&n)
	return n, err
}

// DeleteMatchesByListingIDs drops matches for the given listings across all
// runs. Used by the expiry sweep.
func (s *Store) DeleteMatchesByListingIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimRight(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM matches WHERE listing_id IN (`+placeholders+`);`, args...)
	if err != nil {
		return 0, fmt.Errorf("delete matches: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func prefixCols(prefix, cols string) string {
	parts := strings.Split(cols, ",")
	for i, p := range parts {
		parts[i] = prefix + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
