package storage

import (
	"database/sql"
	"fmt"
)

// Overview holds aggregate counts across every stored run.
type Overview struct {
	TotalRuns     int
	TotalEdges    int
	TotalPasses   int
	TotalComplete int
	UniquePlayers int
	EarliestRun   string
	LatestRun     string
}

// PlayerTotals holds summed edge weights for one player within a run.
type PlayerTotals struct {
	Player        string
	PassesMade    int
	PassesRecv    int
	FailedPasses  int
	AssistsMade   int
	Recoveries    int
	DistinctPeers int
}

// CategoryCount holds the stored weight for one pass category across runs.
type CategoryCount struct {
	Category string
	Edges    int
	Weight   int
}

// GetOverview returns database-wide totals.
func (db *DB) GetOverview() (Overview, error) {
	var ov Overview
	var earliest, latest sql.NullString
	err := db.conn.QueryRow(`
		SELECT COUNT(*), MIN(created_at), MAX(created_at) FROM runs`).
		Scan(&ov.TotalRuns, &earliest, &latest)
	if err != nil {
		return ov, fmt.Errorf("count runs: %w", err)
	}
	ov.EarliestRun = earliest.String
	ov.LatestRun = latest.String

	err = db.conn.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(total_passes), 0), COALESCE(SUM(weight), 0) FROM edges`).
		Scan(&ov.TotalEdges, &ov.TotalPasses, &ov.TotalComplete)
	if err != nil {
		return ov, fmt.Errorf("count edges: %w", err)
	}

	err = db.conn.QueryRow(`
		SELECT COUNT(*) FROM (
			SELECT source AS player FROM edges
			UNION
			SELECT target FROM edges
		)`).Scan(&ov.UniquePlayers)
	if err != nil {
		return ov, fmt.Errorf("count players: %w", err)
	}
	return ov, nil
}

// GetCategoryCounts returns edge and weight totals per category, heaviest first.
func (db *DB) GetCategoryCounts() ([]CategoryCount, error) {
	rows, err := db.conn.Query(`
		SELECT category, COUNT(*), SUM(weight)
		FROM edges GROUP BY category
		ORDER BY SUM(weight) DESC, category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Edges, &c.Weight); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetPlayerTotals sums each player's outgoing and incoming passes for a run,
// ordered by passes made.
func (db *DB) GetPlayerTotals(runID string) ([]PlayerTotals, error) {
	rows, err := db.conn.Query(`
		WITH players AS (
			SELECT source AS player FROM edges WHERE run_id = ?1
			UNION
			SELECT target FROM edges WHERE run_id = ?1
		)
		SELECT p.player,
			COALESCE((SELECT SUM(weight) FROM edges WHERE run_id = ?1 AND source = p.player), 0),
			COALESCE((SELECT SUM(weight) FROM edges WHERE run_id = ?1 AND target = p.player), 0),
			COALESCE((SELECT SUM(failed_passes) FROM edges WHERE run_id = ?1 AND source = p.player), 0),
			COALESCE((SELECT SUM(assist_count) FROM edges WHERE run_id = ?1 AND source = p.player), 0),
			COALESCE((SELECT SUM(recovery_interception) FROM edges WHERE run_id = ?1 AND source = p.player), 0),
			(SELECT COUNT(DISTINCT target) FROM edges WHERE run_id = ?1 AND source = p.player AND target != p.player)
		FROM players p
		ORDER BY 2 DESC, p.player`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerTotals
	for rows.Next() {
		var p PlayerTotals
		if err := rows.Scan(&p.Player, &p.PassesMade, &p.PassesRecv,
			&p.FailedPasses, &p.AssistsMade, &p.Recoveries, &p.DistinctPeers); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns the column names and every
// value rendered as a string. NULL becomes "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		rec := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				rec[i] = "NULL"
			case []byte:
				rec[i] = string(x)
			default:
				rec[i] = fmt.Sprint(x)
			}
		}
		out = append(out, rec)
	}
	return cols, out, rows.Err()
}

// PlayerRun is one player's pass totals within one stored run.
type PlayerRun struct {
	RunID      string
	CreatedAt  string
	Team       string
	PassesMade int
	PassesRecv int
	Failed     int
	Assists    int
}

// GetPlayerHistory returns the player's totals for every run they appear in,
// oldest first.
func (db *DB) GetPlayerHistory(player string) ([]PlayerRun, error) {
	rows, err := db.conn.Query(`
		SELECT r.id, r.created_at, r.team,
			COALESCE(SUM(CASE WHEN e.source = ?1 THEN e.weight END), 0),
			COALESCE(SUM(CASE WHEN e.target = ?1 THEN e.weight END), 0),
			COALESCE(SUM(CASE WHEN e.source = ?1 THEN e.failed_passes END), 0),
			COALESCE(SUM(CASE WHEN e.source = ?1 THEN e.assist_count END), 0)
		FROM runs r
		JOIN edges e ON e.run_id = r.id
		WHERE e.source = ?1 OR e.target = ?1
		GROUP BY r.id
		ORDER BY r.created_at, r.id`, player)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerRun
	for rows.Next() {
		var p PlayerRun
		if err := rows.Scan(&p.RunID, &p.CreatedAt, &p.Team,
			&p.PassesMade, &p.PassesRecv, &p.Failed, &p.Assists); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
