package storage

import (
	"testing"

	"github.com/pable/go-pass-network/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRun(id, created string) model.RunRecord {
	return model.RunRecord{
		ID:        id,
		CreatedAt: created,
		Inputs:    "match_1_AR.csv",
		Team:      "Argentina",
		Summary: model.Summary{
			RowsRead: 12, RowsDropped: 2, Events: 10, Edges: 3,
			Completed: 9, Failed: 1, RecoveryEvents: 0,
		},
	}
}

var sampleEdges = []model.Edge{
	{Source: "A", Target: "B", Category: model.CategoryRegularPass, Weight: 5, FailedPasses: 1, TotalPasses: 6},
	{Source: "B", Target: "A", Category: model.CategoryRegularPass, Weight: 3, TotalPasses: 3},
	{Source: "A", Target: "C", Category: model.CategoryAssist, Weight: 1, TotalPasses: 1, AssistCount: 1},
}

func TestRunInsertAndExists(t *testing.T) {
	db := openMemDB(t)

	if err := db.InsertRun(sampleRun("run-1", "2026-01-01T10:00:00Z")); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}

	exists, err := db.RunExists("run-1")
	if err != nil {
		t.Fatalf("RunExists: %v", err)
	}
	if !exists {
		t.Error("expected run to exist after insert")
	}

	exists2, _ := db.RunExists("nonexistent")
	if exists2 {
		t.Error("expected non-existent run to not exist")
	}
}

func TestListRuns(t *testing.T) {
	db := openMemDB(t)

	for _, r := range []model.RunRecord{
		sampleRun("r1", "2026-01-01T10:00:00Z"),
		sampleRun("r2", "2026-02-01T10:00:00Z"),
	} {
		if err := db.InsertRun(r); err != nil {
			t.Fatalf("InsertRun: %v", err)
		}
	}

	list, err := db.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(list))
	}
	// Newest first.
	if list[0].ID != "r2" {
		t.Errorf("expected r2 first (newest), got %s", list[0].ID)
	}
	if list[1].Summary.Completed != 9 || list[1].Team != "Argentina" {
		t.Errorf("summary not round-tripped: %+v", list[1])
	}
}

func TestGetRunByPrefix(t *testing.T) {
	db := openMemDB(t)

	db.InsertRun(sampleRun("deadbeef1234", "2026-01-01T10:00:00Z"))

	r, err := db.GetRunByPrefix("deadbeef")
	if err != nil {
		t.Fatalf("GetRunByPrefix: %v", err)
	}
	if r == nil || r.ID != "deadbeef1234" {
		t.Fatalf("expected deadbeef1234, got %+v", r)
	}

	none, err := db.GetRunByPrefix("cafe")
	if err != nil {
		t.Fatalf("GetRunByPrefix miss: %v", err)
	}
	if none != nil {
		t.Errorf("expected nil for unknown prefix, got %+v", none)
	}
}

func TestEdgesRoundTrip(t *testing.T) {
	db := openMemDB(t)

	if err := db.SaveRun(sampleRun("r1", "2026-01-01T10:00:00Z"), sampleEdges); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := db.GetEdges("r1")
	if err != nil {
		t.Fatalf("GetEdges: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 edges, got %d", len(got))
	}
	// Ordered by weight descending.
	first := got[0]
	if first.Source != "A" || first.Target != "B" || first.Weight != 5 || first.FailedPasses != 1 || first.TotalPasses != 6 {
		t.Errorf("unexpected first edge: %+v", first)
	}
	last := got[2]
	if last.Category != model.CategoryAssist || last.AssistCount != 1 || last.Label != "Assist" {
		t.Errorf("unexpected last edge: %+v", last)
	}
}

func TestInsertIdempotency(t *testing.T) {
	db := openMemDB(t)

	run := sampleRun("r1", "2026-01-01T10:00:00Z")
	for i := 0; i < 2; i++ {
		if err := db.SaveRun(run, sampleEdges); err != nil {
			t.Fatalf("SaveRun #%d: %v", i, err)
		}
	}

	runs, _ := db.ListRuns()
	if len(runs) != 1 {
		t.Errorf("expected 1 run after double insert, got %d", len(runs))
	}
	edges, _ := db.GetEdges("r1")
	if len(edges) != 3 {
		t.Errorf("expected 3 edges after double insert, got %d", len(edges))
	}
}

func TestDeleteRun(t *testing.T) {
	db := openMemDB(t)

	db.SaveRun(sampleRun("r1", "2026-01-01T10:00:00Z"), sampleEdges)
	db.SaveRun(sampleRun("r2", "2026-01-02T10:00:00Z"), sampleEdges[:1])

	ok, err := db.DeleteRun("r1")
	if err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}
	if !ok {
		t.Error("expected DeleteRun to report a deletion")
	}
	edges, _ := db.GetEdges("r1")
	if len(edges) != 0 {
		t.Errorf("expected edges of r1 to be gone, got %d", len(edges))
	}
	kept, _ := db.GetEdges("r2")
	if len(kept) != 1 {
		t.Errorf("expected r2 edges untouched, got %d", len(kept))
	}

	again, err := db.DeleteRun("r1")
	if err != nil {
		t.Fatalf("DeleteRun again: %v", err)
	}
	if again {
		t.Error("expected second delete to report nothing deleted")
	}
}

// ---- Overview tests ----

func TestGetOverview(t *testing.T) {
	db := openMemDB(t)

	empty, err := db.GetOverview()
	if err != nil {
		t.Fatalf("GetOverview empty: %v", err)
	}
	if empty.TotalRuns != 0 || empty.EarliestRun != "" {
		t.Errorf("expected empty overview, got %+v", empty)
	}

	db.SaveRun(sampleRun("r1", "2026-01-01T10:00:00Z"), sampleEdges)
	db.SaveRun(sampleRun("r2", "2026-03-01T10:00:00Z"), sampleEdges[:1])

	ov, err := db.GetOverview()
	if err != nil {
		t.Fatalf("GetOverview: %v", err)
	}
	if ov.TotalRuns != 2 {
		t.Errorf("TotalRuns = %d, want 2", ov.TotalRuns)
	}
	if ov.TotalEdges != 4 {
		t.Errorf("TotalEdges = %d, want 4", ov.TotalEdges)
	}
	if ov.TotalPasses != 16 {
		t.Errorf("TotalPasses = %d, want 16", ov.TotalPasses)
	}
	if ov.TotalComplete != 14 {
		t.Errorf("TotalComplete = %d, want 14", ov.TotalComplete)
	}
	if ov.UniquePlayers != 3 {
		t.Errorf("UniquePlayers = %d, want 3", ov.UniquePlayers)
	}
	if ov.EarliestRun != "2026-01-01T10:00:00Z" || ov.LatestRun != "2026-03-01T10:00:00Z" {
		t.Errorf("unexpected range %s .. %s", ov.EarliestRun, ov.LatestRun)
	}

	cats, err := db.GetCategoryCounts()
	if err != nil {
		t.Fatalf("GetCategoryCounts: %v", err)
	}
	if len(cats) != 2 || cats[0].Category != "Regular pass" || cats[0].Weight != 13 {
		t.Errorf("unexpected category counts: %+v", cats)
	}
}

func TestGetPlayerTotals(t *testing.T) {
	db := openMemDB(t)
	db.SaveRun(sampleRun("r1", "2026-01-01T10:00:00Z"), sampleEdges)

	totals, err := db.GetPlayerTotals("r1")
	if err != nil {
		t.Fatalf("GetPlayerTotals: %v", err)
	}
	if len(totals) != 3 {
		t.Fatalf("expected 3 players, got %d", len(totals))
	}
	a := totals[0]
	if a.Player != "A" || a.PassesMade != 6 || a.PassesRecv != 3 || a.FailedPasses != 1 || a.AssistsMade != 1 || a.DistinctPeers != 2 {
		t.Errorf("unexpected totals for A: %+v", a)
	}
	if totals[1].Player != "B" || totals[2].Player != "C" || totals[2].PassesRecv != 1 {
		t.Errorf("unexpected order: %+v", totals)
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	db.SaveRun(sampleRun("r1", "2026-01-01T10:00:00Z"), sampleEdges)

	cols, rows, err := db.QueryRaw("SELECT source, SUM(weight) AS w, NULL AS n FROM edges GROUP BY source ORDER BY source")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 3 || cols[1] != "w" {
		t.Errorf("unexpected columns %v", cols)
	}
	if len(rows) != 2 || rows[0][0] != "A" || rows[0][1] != "6" || rows[0][2] != "NULL" {
		t.Errorf("unexpected rows %v", rows)
	}

	if _, _, err := db.QueryRaw("SELECT * FROM nope"); err == nil {
		t.Error("expected error for unknown table")
	}
}

func TestGetPlayerHistory(t *testing.T) {
	db := openMemDB(t)
	db.SaveRun(sampleRun("r2", "2026-03-01T10:00:00Z"), sampleEdges[:1])
	db.SaveRun(sampleRun("r1", "2026-01-01T10:00:00Z"), sampleEdges)

	hist, err := db.GetPlayerHistory("A")
	if err != nil {
		t.Fatalf("GetPlayerHistory: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(hist))
	}
	// Oldest first.
	if hist[0].RunID != "r1" || hist[0].PassesMade != 6 || hist[0].PassesRecv != 3 || hist[0].Assists != 1 {
		t.Errorf("unexpected first row: %+v", hist[0])
	}
	if hist[1].RunID != "r2" || hist[1].PassesMade != 5 || hist[1].PassesRecv != 0 || hist[1].Failed != 1 {
		t.Errorf("unexpected second row: %+v", hist[1])
	}

	none, err := db.GetPlayerHistory("Nobody")
	if err != nil {
		t.Fatalf("GetPlayerHistory miss: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no rows, got %+v", none)
	}
}
