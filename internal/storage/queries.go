package storage

import (
	"database/sql"
	"fmt"

	"github.com/pable/go-pass-network/internal/model"
)

const runColumns = `id, created_at, inputs, team,
	rows_read, rows_dropped, rows_filtered, events, edges,
	completed, failed, recovery_interception, zero_weight_dropped`

// RunExists returns true if a run with the given ID is already stored.
func (db *DB) RunExists(id string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM runs WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertRun inserts a run record. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertRun(r model.RunRecord) error {
	s := r.Summary
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO runs(`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CreatedAt, r.Inputs, r.Team,
		s.RowsRead, s.RowsDropped, s.RowsFiltered, s.Events, s.Edges,
		s.Completed, s.Failed, s.RecoveryEvents, s.ZeroWeight,
	)
	return err
}

// InsertEdges bulk-inserts the edges of a run in a transaction.
func (db *DB) InsertEdges(runID string, edges []model.Edge) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO edges(
			run_id, source, target, category,
			weight, failed_passes, recovery_interception, total_passes, assist_count
		) VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range edges {
		_, err = stmt.Exec(
			runID, e.Source, e.Target, string(e.Category),
			e.Weight, e.FailedPasses, e.RecoveryInterception, e.TotalPasses, e.AssistCount,
		)
		if err != nil {
			return fmt.Errorf("insert edge %s->%s/%s: %w", e.Source, e.Target, e.Category, err)
		}
	}
	return tx.Commit()
}

// SaveRun stores a run together with its edges.
func (db *DB) SaveRun(r model.RunRecord, edges []model.Edge) error {
	if err := db.InsertRun(r); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	if err := db.InsertEdges(r.ID, edges); err != nil {
		return fmt.Errorf("insert edges: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (model.RunRecord, error) {
	var r model.RunRecord
	s := &r.Summary
	err := row.Scan(&r.ID, &r.CreatedAt, &r.Inputs, &r.Team,
		&s.RowsRead, &s.RowsDropped, &s.RowsFiltered, &s.Events, &s.Edges,
		&s.Completed, &s.Failed, &s.RecoveryEvents, &s.ZeroWeight)
	return r, err
}

// ListRuns returns all stored runs, newest first.
func (db *DB) ListRuns() ([]model.RunRecord, error) {
	rows, err := db.conn.Query(`SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRunByPrefix finds the newest run whose ID starts with the given prefix.
// It returns nil, nil when nothing matches.
func (db *DB) GetRunByPrefix(prefix string) (*model.RunRecord, error) {
	r, err := scanRun(db.conn.QueryRow(`
		SELECT `+runColumns+` FROM runs WHERE id LIKE ?
		ORDER BY created_at DESC LIMIT 1`, prefix+"%"))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetEdges returns the edges of a run ordered by weight descending.
func (db *DB) GetEdges(runID string) ([]model.Edge, error) {
	rows, err := db.conn.Query(`
		SELECT source, target, category,
		       weight, failed_passes, recovery_interception, total_passes, assist_count
		FROM edges WHERE run_id = ?
		ORDER BY weight DESC, source, target, category`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Edge
	for rows.Next() {
		var e model.Edge
		var cat string
		if err := rows.Scan(
			&e.Source, &e.Target, &cat,
			&e.Weight, &e.FailedPasses, &e.RecoveryInterception, &e.TotalPasses, &e.AssistCount,
		); err != nil {
			return nil, err
		}
		e.Category = model.Category(cat)
		e.Label = cat
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and its edges. It reports whether a run was deleted.
func (db *DB) DeleteRun(id string) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM edges WHERE run_id = ?`, id); err != nil {
		return false, fmt.Errorf("delete edges: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, tx.Commit()
}
