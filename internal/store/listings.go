package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"jobby-engine/internal/domain"
)

const listingCols = `id, source, source_job_id, title, company, company_logo,
location, city, state, country, is_remote, description, highlights,
apply_url, canonical_url, fingerprint, employment_type,
salary_min, salary_max, salary_period, posted_at, first_seen_at, ignored`

func (s *Store) CreateListing(ctx context.Context, l *domain.Listing) (int64, error) {
	highlights := "{}"
	if !l.Highlights.Empty() {
		b, err := json.Marshal(l.Highlights)
		if err != nil {
			return 0, fmt.Errorf("marshal highlights: %w", err)
		}
		highlights = string(b)
	}

	res, err := s.db.ExecContext(ctx, `
INSERT INTO listings (source, source_job_id, title, company, company_logo,
  location, city, state, country, is_remote, description, highlights,
  apply_url, canonical_url, fingerprint, employment_type,
  salary_min, salary_max, salary_period, posted_at, first_seen_at, ignored)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?);`,
		l.Source, l.SourceJobID, l.Title, l.Company, l.CompanyLogo,
		l.Location, l.City, l.State, l.Country, boolInt(l.IsRemote), l.Description, highlights,
		l.ApplyURL, l.CanonicalURL, l.Fingerprint, l.EmploymentType,
		nullFloat(l.SalaryMin), nullFloat(l.SalaryMax), l.SalaryPeriod,
		nullTime(l.PostedAt), l.FirstSeenAt.UTC().Format(time.RFC3339), boolInt(l.Ignored),
	)
	if err != nil {
		return 0, fmt.Errorf("insert listing: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	l.ID = id
	return id, nil
}

func (s *Store) FindBySourceID(ctx context.Context, source, sourceJobID string) (*domain.Listing, error) {
	return s.findListing(ctx, `source = ? AND source_job_id = ?`, source, sourceJobID)
}

func (s *Store) FindByCanonicalURL(ctx context.Context, canonical string) (*domain.Listing, error) {
	return s.findListing(ctx, `canonical_url = ?`, canonical)
}

func (s *Store) FindByFingerprint(ctx context.Context, fingerprint string) (*domain.Listing, error) {
	return s.findListing(ctx, `fingerprint = ?`, fingerprint)
}

func (s *Store) GetListing(ctx context.Context, id int64) (*domain.Listing, error) {
	return s.findListing(ctx, `id = ?`, id)
}

func (s *Store) findListing(ctx context.Context, where string, args ...any) (*domain.Listing, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+listingCols+` FROM listings WHERE `+where+` LIMIT 1;`, args...)
	l, err := scanListing(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// FindByIDs loads the given listings; missing ids are silently absent from
// the result.
func (s *Store) FindByIDs(ctx context.Context, ids []int64) ([]domain.Listing, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimRight(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+listingCols+` FROM listings WHERE id IN (`+placeholders+`);`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectListings(rows)
}

func (s *Store) CountListings(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings;`).Scan(&n)
	return n, err
}

func (s *Store) SetIgnored(ctx context.Context, id int64, ignored bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE listings SET ignored = ? WHERE id = ?;`, boolInt(ignored), id)
	return err
}

// ExpiredListingIDs returns listings whose posting date fell out of the
// expiry window. Used by the match sweep; listings themselves stay.
func (s *Store) ExpiredListingIDs(ctx context.Context, olderThan time.Time) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM listings WHERE posted_at IS NOT NULL AND posted_at < ?;`,
		olderThan.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanListing scans the listingCols columns, plus any extra trailing columns
// a join added.
func scanListing(r rowScanner, extra ...any) (*domain.Listing, error) {
	var (
		l          domain.Listing
		isRemote   int
		ignored    int
		highlights string
		salaryMin  sql.NullFloat64
		salaryMax  sql.NullFloat64
		postedAt   sql.NullString
		firstSeen  string
	)
	dest := []any{
		&l.ID, &l.Source, &l.SourceJobID, &l.Title, &l.Company, &l.CompanyLogo,
		&l.Location, &l.City, &l.State, &l.Country, &isRemote, &l.Description, &highlights,
		&l.ApplyURL, &l.CanonicalURL, &l.Fingerprint, &l.EmploymentType,
		&salaryMin, &salaryMax, &l.SalaryPeriod, &postedAt, &firstSeen, &ignored,
	}
	dest = append(dest, extra...)
	if err := r.Scan(dest...); err != nil {
		return nil, err
	}

	l.IsRemote = isRemote != 0
	l.Ignored = ignored != 0
	_ = json.Unmarshal([]byte(highlights), &l.Highlights)
	if salaryMin.Valid {
		l.SalaryMin = &salaryMin.Float64
	}
	if salaryMax.Valid {
		l.SalaryMax = &salaryMax.Float64
	}
	if postedAt.Valid && postedAt.String != "" {
		if t, perr := time.Parse(time.RFC3339, postedAt.String); perr == nil {
			l.PostedAt = &t
		}
	}
	l.FirstSeenAt, _ = time.Parse(time.RFC3339, firstSeen)
	return &l, nil
}

func collectListings(rows *sql.Rows) ([]domain.Listing, error) {
	var out []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
