// Package schema declares which input columns the pipeline reads, which of
// them are required, and binds those declarations to a concrete CSV header.
package schema

import (
	"fmt"
	"sort"
)

// Field is a logical input field, independent of the column name it has in
// a particular export.
type Field string

const (
	FieldSource      Field = "source"
	FieldTarget      Field = "target"
	FieldPassType    Field = "pass_type"
	FieldCross       Field = "cross"
	FieldSwitch      Field = "switch"
	FieldThroughBall Field = "through_ball"
	FieldShotAssist  Field = "shot_assist"
	FieldGoalAssist  Field = "goal_assist"
	FieldOutcome     Field = "outcome"
	FieldTeam        Field = "team"
)

// Fields lists every logical field in declaration order.
var Fields = []Field{
	FieldSource, FieldTarget,
	FieldPassType,
	FieldCross, FieldSwitch, FieldThroughBall, FieldShotAssist, FieldGoalAssist,
	FieldOutcome,
	FieldTeam,
}

// Schema maps logical fields to column names. Only Source and Target are
// required; a missing optional column reads as nil on every row.
type Schema struct {
	Columns  map[Field]string
	Required map[Field]bool
}

// Default returns the schema for StatsBomb event exports.
func Default() Schema {
	return Schema{
		Columns: map[Field]string{
			FieldSource:      "player",
			FieldTarget:      "pass_recipient",
			FieldPassType:    "pass_type",
			FieldCross:       "pass_cross",
			FieldSwitch:      "pass_switch",
			FieldThroughBall: "pass_through_ball",
			FieldShotAssist:  "pass_shot_assist",
			FieldGoalAssist:  "pass_goal_assist",
			FieldOutcome:     "pass_outcome",
			FieldTeam:        "team",
		},
		Required: map[Field]bool{
			FieldSource: true,
			FieldTarget: true,
		},
	}
}

// WithColumns returns a copy of s with the given column names overriding the
// current ones. Empty names are ignored.
func (s Schema) WithColumns(overrides map[Field]string) Schema {
	out := Schema{
		Columns:  make(map[Field]string, len(s.Columns)),
		Required: make(map[Field]bool, len(s.Required)),
	}
	for f, c := range s.Columns {
		out.Columns[f] = c
	}
	for f, r := range s.Required {
		out.Required[f] = r
	}
	for f, c := range overrides {
		if c != "" {
			out.Columns[f] = c
		}
	}
	return out
}

// Column returns the column name bound to f.
func (s Schema) Column(f Field) string {
	if c, ok := s.Columns[f]; ok {
		return c
	}
	return string(f)
}

// SchemaError reports a required column absent from the input header.
type SchemaError struct {
	Field  Field
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required column %q (%s)", e.Column, e.Field)
}

// Binding resolves each field to a column position in one header.
type Binding struct {
	index   map[Field]int
	missing []Field
}

// Bind checks header against s. Required fields must be present; optional
// fields that are absent are recorded and read as nil.
func (s Schema) Bind(header []string) (Binding, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}

	b := Binding{index: make(map[Field]int, len(Fields))}
	for _, f := range Fields {
		col := s.Column(f)
		i, ok := pos[col]
		if !ok {
			if s.Required[f] {
				return Binding{}, &SchemaError{Field: f, Column: col}
			}
			b.index[f] = -1
			b.missing = append(b.missing, f)
			continue
		}
		b.index[f] = i
	}
	sort.Slice(b.missing, func(i, j int) bool { return b.missing[i] < b.missing[j] })
	return b, nil
}

// Index returns the column position of f, or -1 when the column is absent.
func (b Binding) Index(f Field) int {
	if i, ok := b.index[f]; ok {
		return i
	}
	return -1
}

// Has reports whether f is present in the bound header.
func (b Binding) Has(f Field) bool {
	return b.Index(f) >= 0
}

// Missing lists the optional fields absent from the bound header.
func (b Binding) Missing() []Field {
	out := make([]Field, len(b.missing))
	copy(out, b.missing)
	return out
}
