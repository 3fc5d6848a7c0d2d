package store

import (
	"database/sql"
	"fmt"

	"github.com/charm-data/k3pi.report/internal/batch"
)

// ResultStore persists per-candidate phase-space results.
type ResultStore struct {
	db *sql.DB
}

// NewResultStore returns a ResultStore backed by db.
func NewResultStore(db *DB) *ResultStore {
	return &ResultStore{db: db.DB}
}

// InsertBatch stores all successful results of a run in one
// transaction. Rows carrying a per-event error are skipped, mirroring
// the CSV export.
func (s *ResultStore) InsertBatch(runID string, results []batch.Result) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin batch insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO phsp_results (
			run_id, event_id, is_d0, is_rs,
			m12, m34, c12, c34, phi, m13, phi_check_diff,
			decay_time_ps, time_bin
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare result insert: %w", err)
	}
	defer stmt.Close()

	for i := range results {
		r := &results[i]
		if r.Err != nil {
			continue
		}
		decayTime := sql.NullFloat64{Float64: r.DecayTimePS, Valid: r.HasTime}
		_, err := stmt.Exec(
			runID, int64(r.EventID), r.IsD0, r.IsRS,
			r.Point.M12, r.Point.M34, r.Point.CosTheta12, r.Point.CosTheta34,
			r.Point.Phi, r.Point.M13, r.Point.PhiCheckDiff,
			decayTime, r.TimeBin,
		)
		if err != nil {
			return fmt.Errorf("insert event %d: %w", r.EventID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch insert: %w", err)
	}
	return nil
}

// ListByRun returns the stored results of a run ordered by event ID.
func (s *ResultStore) ListByRun(runID string) ([]batch.Result, error) {
	rows, err := s.db.Query(
		`SELECT event_id, is_d0, is_rs,
			m12, m34, c12, c34, phi, m13, phi_check_diff,
			decay_time_ps, time_bin
		 FROM phsp_results WHERE run_id = ? ORDER BY event_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list results for run %s: %w", runID, err)
	}
	defer rows.Close()

	var results []batch.Result
	for rows.Next() {
		var (
			r         batch.Result
			eventID   int64
			decayTime sql.NullFloat64
		)
		if err := rows.Scan(
			&eventID, &r.IsD0, &r.IsRS,
			&r.Point.M12, &r.Point.M34, &r.Point.CosTheta12, &r.Point.CosTheta34,
			&r.Point.Phi, &r.Point.M13, &r.Point.PhiCheckDiff,
			&decayTime, &r.TimeBin,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.EventID = uint64(eventID)
		r.DecayTimePS = decayTime.Float64
		r.HasTime = decayTime.Valid
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// BinCounts is a per-time-bin yield split by sample sign.
type BinCounts struct {
	TimeBin int
	RS      int
	WS      int
}

// YieldsByTimeBin returns per-bin RS/WS yields for a run, ordered by
// bin index. Unbinned candidates report as bin -1.
func (s *ResultStore) YieldsByTimeBin(runID string) ([]BinCounts, error) {
	rows, err := s.db.Query(
		`SELECT time_bin,
			COALESCE(SUM(CASE WHEN is_rs THEN 1 ELSE 0 END), 0),
			COUNT(*)
		 FROM phsp_results WHERE run_id = ?
		 GROUP BY time_bin ORDER BY time_bin`, runID)
	if err != nil {
		return nil, fmt.Errorf("yields for run %s: %w", runID, err)
	}
	defer rows.Close()

	var counts []BinCounts
	for rows.Next() {
		var (
			bc    BinCounts
			total int
		)
		if err := rows.Scan(&bc.TimeBin, &bc.RS, &total); err != nil {
			return nil, fmt.Errorf("scan yields: %w", err)
		}
		bc.WS = total - bc.RS
		counts = append(counts, bc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
