package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pable/go-pass-network/internal/model"
	"github.com/pable/go-pass-network/internal/schema"
	"github.com/pable/go-pass-network/internal/storage"
)

const eventsCSV = "team,player,pass_recipient,pass_type,pass_cross,pass_outcome\n" +
	"Argentina,Lionel Messi,Julián Álvarez,,True,\n" +
	"Argentina,Lionel Messi,Julián Álvarez,,,\n" +
	"Argentina,Enzo Fernández,Lionel Messi,Free Kick,,\n" +
	"Argentina,Enzo Fernández,Lionel Messi,,,Incomplete\n" +
	"France,Kylian Mbappé,Antoine Griezmann,,,\n"

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return p
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// TestBuild_WritesAndStores: a build writes both tables and stores the run.
func TestBuild_WritesAndStores(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "match.csv", eventsCSV)
	out := filepath.Join(dir, "out", "edges.csv")
	nodes := filepath.Join(dir, "nodes.csv")
	db := filepath.Join(dir, "passnet.db")

	err := runCLI(t, "build", in,
		"--out", out, "--nodes-out", nodes, "--db", db,
		"--team", "Argentina", "--store", "--log-level", "error")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read edges: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if lines[0] != "Source,Target,pass_category,Weight,failed_passes,recovery_interception_pass,total_passes,assist_count,label" {
		t.Errorf("unexpected header %q", lines[0])
	}
	// Messi->Álvarez cross, Messi->Álvarez regular, Fernández->Messi free kick.
	// The incomplete regular pass has no completed pass and France is filtered.
	if len(lines) != 4 {
		t.Errorf("expected 3 edges, got %d:\n%s", len(lines)-1, raw)
	}
	if strings.Contains(string(raw), "Mbappé") {
		t.Error("team filter should remove France")
	}
	if _, err := os.Stat(nodes); err != nil {
		t.Errorf("nodes file not written: %v", err)
	}

	store, err := storage.Open(db)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer store.Close()
	runs, err := store.ListRuns()
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 stored run, got %d", len(runs))
	}
	r := runs[0]
	if r.Team != "Argentina" || r.Summary.Edges != 3 || r.Summary.Completed != 3 || r.Summary.RowsFiltered != 1 {
		t.Errorf("unexpected stored run: %+v", r)
	}
	edges, _ := store.GetEdges(r.ID)
	if len(edges) != 3 {
		t.Errorf("expected 3 stored edges, got %d", len(edges))
	}
}

// TestBuild_EmptyInputExitsTwo: no surviving rows is "nothing to do", not a failure.
func TestBuild_EmptyInputExitsTwo(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "empty.csv", "player,pass_recipient\nA,\n,B\n")
	out := filepath.Join(dir, "edges.csv")

	err := runCLI(t, "build", in, "--out", out, "--db", filepath.Join(dir, "p.db"),
		"--team", "", "--log-level", "error")

	var empty *model.EmptyInputError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptyInputError, got %v", err)
	}
	if code := exitCode(err); code != exitEmpty {
		t.Errorf("exit code = %d, want %d", code, exitEmpty)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("no edge file should be written for empty input")
	}
}

func TestBuild_MissingColumnFails(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "bad.csv", "player,minute\nA,1\n")

	err := runCLI(t, "build", in, "--out", filepath.Join(dir, "edges.csv"),
		"--db", filepath.Join(dir, "p.db"), "--log-level", "error")

	var se *schema.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if code := exitCode(err); code != exitFailure {
		t.Errorf("exit code = %d, want %d", code, exitFailure)
	}
}

func TestPlayerArg(t *testing.T) {
	if got := playerArg([]string{"--player", "Lionel", "Messi"}); got != "Lionel Messi" {
		t.Errorf("playerArg = %q", got)
	}
	if got := playerArg([]string{"--limit", "3"}); got != "" {
		t.Errorf("playerArg without flag = %q", got)
	}
}

// TestBuild_RunIDReplacesStoredRun: rebuilding under the same --run-id keeps one run.
func TestBuild_RunIDReplacesStoredRun(t *testing.T) {
	t.Cleanup(func() { buildRunID = "" })
	dir := t.TempDir()
	in := writeInput(t, dir, "match.csv", eventsCSV)
	db := filepath.Join(dir, "passnet.db")

	for i := 0; i < 2; i++ {
		err := runCLI(t, "build", in, "--out", filepath.Join(dir, "edges.csv"), "--db", db,
			"--team", "", "--store", "--run-id", "final-argentina", "--log-level", "error")
		if err != nil {
			t.Fatalf("build #%d: %v", i, err)
		}
	}

	store, err := storage.Open(db)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer store.Close()
	runs, err := store.ListRuns()
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "final-argentina" {
		t.Fatalf("expected the single run final-argentina, got %+v", runs)
	}
	if runs[0].Summary.RowsFiltered != 0 {
		t.Errorf("expected no team filter, got %+v", runs[0].Summary)
	}
}

func TestDrop_RemovesSideFiles(t *testing.T) {
	t.Cleanup(func() { dropForce = false })
	dir := t.TempDir()
	db := writeInput(t, dir, "passnet.db", "")
	wal := writeInput(t, dir, "passnet.db-wal", "")

	if err := runCLI(t, "drop", "--force", "--db", db, "--log-level", "error"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	for _, p := range []string{db, wal} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s should be removed", p)
		}
	}
}

func TestDrop_ReportsSideFileFailure(t *testing.T) {
	t.Cleanup(func() { dropForce = false })
	dir := t.TempDir()
	db := writeInput(t, dir, "passnet.db", "")
	// A non-empty directory cannot be removed by os.Remove, even as root.
	shm := filepath.Join(dir, "passnet.db-shm")
	if err := os.MkdirAll(filepath.Join(shm, "held"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	err := runCLI(t, "drop", "--force", "--db", db, "--log-level", "error")
	if err == nil || !strings.Contains(err.Error(), "-shm") {
		t.Fatalf("expected -shm removal error, got %v", err)
	}
	if _, statErr := os.Stat(db); !os.IsNotExist(statErr) {
		t.Error("main database should still be removed")
	}
}
