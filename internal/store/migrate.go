package store

func (s *Store) migrate() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS listings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  source TEXT NOT NULL,
  source_job_id TEXT NOT NULL DEFAULT '',
  title TEXT NOT NULL,
  company TEXT NOT NULL,
  company_logo TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  state TEXT NOT NULL DEFAULT '',
  country TEXT NOT NULL DEFAULT '',
  is_remote INTEGER NOT NULL DEFAULT 0,
  description TEXT NOT NULL DEFAULT '',
  highlights TEXT NOT NULL DEFAULT '{}',
  apply_url TEXT NOT NULL DEFAULT '',
  canonical_url TEXT NOT NULL DEFAULT '',
  fingerprint TEXT NOT NULL,
  employment_type TEXT NOT NULL DEFAULT '',
  salary_min REAL,
  salary_max REAL,
  salary_period TEXT NOT NULL DEFAULT '',
  posted_at TEXT,
  first_seen_at TEXT NOT NULL,
  ignored INTEGER NOT NULL DEFAULT 0
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_listings_source_job
ON listings(source, source_job_id)
WHERE source_job_id != '';`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_listings_canonical_url
ON listings(canonical_url)
WHERE canonical_url != '';`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_listings_fingerprint
ON listings(fingerprint);`,
		`CREATE INDEX IF NOT EXISTS idx_listings_posted_at
ON listings(posted_at);`,

		`CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  status TEXT NOT NULL,
  run_at TEXT NOT NULL,
  total_fetched INTEGER NOT NULL DEFAULT 0,
  new_jobs INTEGER NOT NULL DEFAULT 0,
  duplicates INTEGER NOT NULL DEFAULT 0,
  error_message TEXT NOT NULL DEFAULT '',
  params TEXT NOT NULL DEFAULT '{}'
);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_status_run_at
ON runs(status, run_at DESC);`,

		`CREATE TABLE IF NOT EXISTS matches (
  run_id INTEGER NOT NULL REFERENCES runs(id),
  listing_id INTEGER NOT NULL REFERENCES listings(id),
  score INTEGER NOT NULL,
  rank INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (run_id, listing_id)
);`,
		`CREATE INDEX IF NOT EXISTS idx_matches_run_score
ON matches(run_id, score DESC);`,

		`CREATE TABLE IF NOT EXISTS profile (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  data TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS settings (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  data TEXT NOT NULL
);`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}
