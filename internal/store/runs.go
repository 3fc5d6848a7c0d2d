package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/charm-data/k3pi.report/internal/timeutil"
)

// Run records one conversion pass over an input sample: where the
// candidates came from and which pairing settings produced the results.
type Run struct {
	RunID     string
	Source    string
	Policy    string
	Seed      uint64
	CreatedAt int64
}

// RunStore persists analysis runs.
type RunStore struct {
	db    *sql.DB
	clock timeutil.Clock
}

// NewRunStore returns a RunStore backed by db.
func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db.DB, clock: timeutil.RealClock{}}
}

// Insert stores the run, assigning a fresh UUID and timestamp when the
// caller left them empty, and returns the run ID.
func (s *RunStore) Insert(run *Run) (string, error) {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = s.clock.Now().Unix()
	}
	_, err := s.db.Exec(
		`INSERT INTO analysis_runs (run_id, source, policy, seed, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		run.RunID, run.Source, run.Policy, int64(run.Seed), run.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert run %s: %w", run.RunID, err)
	}
	return run.RunID, nil
}

// Get returns the run with the given ID.
func (s *RunStore) Get(runID string) (*Run, error) {
	var (
		run  Run
		seed int64
	)
	err := s.db.QueryRow(
		`SELECT run_id, source, policy, seed, created_at
		 FROM analysis_runs WHERE run_id = ?`, runID,
	).Scan(&run.RunID, &run.Source, &run.Policy, &seed, &run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	run.Seed = uint64(seed)
	return &run, nil
}

// List returns all runs, newest first.
func (s *RunStore) List() ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT run_id, source, policy, seed, created_at
		 FROM analysis_runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run  Run
			seed int64
		)
		if err := rows.Scan(&run.RunID, &run.Source, &run.Policy, &seed, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Seed = uint64(seed)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}
