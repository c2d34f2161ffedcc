// Package model holds the types shared by every stage of the pass network
// pipeline: the raw input table, normalized events, categories and edges.
package model

import "fmt"

// ---- Raw input ----

// Table is a flat table of heterogeneous event rows. Cells may be nil
// (absent / NaN), bool, any integer or float kind, or string.
// Pipeline stages never modify a Table.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Index returns the position of the named column.
func (t *Table) Index(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Cell returns the value at row r, column c, or nil when the row is shorter
// than the header.
func (t *Table) Cell(r, c int) any {
	row := t.Rows[r]
	if c < 0 || c >= len(row) {
		return nil
	}
	return row[c]
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// ---- Categories ----

// Category is the interaction label assigned to a pass.
type Category string

const (
	CategoryAssist       Category = "Assist"
	CategoryCross        Category = "Cross"
	CategoryThroughBall  Category = "Through ball"
	CategorySwitchOfPlay Category = "Switch of play"
	CategoryThrowIn      Category = "Throw-in"
	CategoryGoalKick     Category = "Goal Kick"
	CategoryFreeKick     Category = "Free Kick"
	CategoryRegularPass  Category = "Regular pass"
)

var categories = []Category{
	CategoryAssist,
	CategoryCross,
	CategoryThroughBall,
	CategorySwitchOfPlay,
	CategoryThrowIn,
	CategoryGoalKick,
	CategoryFreeKick,
	CategoryRegularPass,
}

// Categories returns every category in classification priority order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	return c.Rank() >= 0
}

// Rank is the position of c in priority order, or -1 for unknown labels.
func (c Category) Rank() int {
	for i, k := range categories {
		if k == c {
			return i
		}
	}
	return -1
}

func (c Category) String() string { return string(c) }

// Pass types that mark a ball-winning event rather than a pass attempt.
const (
	PassTypeRecovery     = "Recovery"
	PassTypeInterception = "Interception"
	PassTypeThrowIn      = "Throw-in"
	PassTypeGoalKick     = "Goal Kick"
	PassTypeFreeKick     = "Free Kick"
)

// ---- Normalized events ----

// Event is one validated input row with its derived flags.
type Event struct {
	Source string
	Target string
	Team   string

	PassType    string
	HasPassType bool

	Cross       bool
	Switch      bool
	ThroughBall bool
	ShotAssist  bool
	GoalAssist  bool

	Outcome    string
	HasOutcome bool // a non-null outcome means the pass failed

	// Derived by the normalizer.
	IsRecoveryOrInterception bool
	Completed                bool
	Failed                   bool

	// Set by the classifier; empty until then.
	Category Category
}

// IsAssist reports whether the event created a shot or a goal.
func (e Event) IsAssist() bool {
	return e.ShotAssist || e.GoalAssist
}

// ---- Aggregated output ----

// Edge is one (source, target, category) row of the pass network.
type Edge struct {
	Source   string
	Target   string
	Category Category

	Weight               int // completed passes
	FailedPasses         int
	RecoveryInterception int
	TotalPasses          int // Weight + FailedPasses
	AssistCount          int

	Label string
}

// Summary carries the observability counts of one pipeline run.
// None of these are part of the edge table itself.
type Summary struct {
	RowsRead       int
	RowsDropped    int // null source or target
	RowsFiltered   int // removed by the team filter
	Events         int
	Edges          int
	Completed      int // sum of Weight over output edges
	Failed         int // sum of FailedPasses over output edges
	RecoveryEvents int // sum of RecoveryInterception over output edges
	ZeroWeight     int // groups removed because Weight <= 0
}

// NodeMetrics holds per-player network measures computed from an edge table.
type NodeMetrics struct {
	Player string

	OutDegree int // distinct receivers
	InDegree  int // distinct passers
	Degree    int // distinct neighbors in either direction

	WeightedOut int // completed passes made
	WeightedIn  int // completed passes received

	Triangles  int
	Clustering float64 // local clustering coefficient, undirected
}

// RunRecord is one stored build of a pass network.
type RunRecord struct {
	ID        string
	CreatedAt string
	Inputs    string
	Team      string
	Summary   Summary
}

// ---- Errors ----

// EmptyInputError reports that a stage produced no rows. It is a
// "nothing to do" result, not a failure of the input.
type EmptyInputError struct {
	Stage string
}

func (e *EmptyInputError) Error() string {
	switch e.Stage {
	case "aggregate":
		return "no edges with completed passes"
	case "normalize":
		return "no valid events after dropping rows"
	default:
		return fmt.Sprintf("empty result at %s", e.Stage)
	}
}
