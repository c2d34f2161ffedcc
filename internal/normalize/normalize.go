// Package normalize validates raw event rows and computes the derived pass
// flags every later stage relies on.
package normalize

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/pable/go-pass-network/internal/model"
	"github.com/pable/go-pass-network/internal/schema"
)

// truthy is the set of string spellings read as true.
var truthy = map[string]bool{
	"true": true,
	"t":    true,
	"yes":  true,
	"y":    true,
	"1":    true,
}

// ToBool coerces a cell value to a flag. It is the only place flag values are
// interpreted; nothing else in the pipeline inspects raw flag cells.
func ToBool(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return truthy[strings.ToLower(strings.TrimSpace(x))]
	case float64:
		return !math.IsNaN(x) && x != 0
	case float32:
		return !math.IsNaN(float64(x)) && x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	case int32:
		return x != 0
	case int16:
		return x != 0
	case int8:
		return x != 0
	case uint:
		return x != 0
	case uint64:
		return x != 0
	case uint32:
		return x != 0
	case uint16:
		return x != 0
	case uint8:
		return x != 0
	}
	return truthiness(reflect.ValueOf(v))
}

// truthiness is the fallback for types ToBool does not list: zero values,
// empty containers and nil references are false.
func truthiness(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Invalid:
		return false
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return ToBool(rv.Elem().Interface())
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return truthy[strings.ToLower(strings.TrimSpace(rv.String()))]
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return !math.IsNaN(f) && f != 0
	case reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return rv.Len() > 0
	case reflect.Func:
		return !rv.IsNil()
	}
	return !rv.IsZero()
}

// IsNull reports whether a cell holds no value: nil, NaN, or a blank string.
func IsNull(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}

// text renders a non-null cell as a string.
func text(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Options tunes normalization beyond the schema.
type Options struct {
	// Team keeps only rows whose team column equals it. Ignored when empty
	// or when the input has no team column.
	Team string
}

// Stats describes what normalization did to the input.
type Stats struct {
	RowsRead     int
	RowsDropped  int // null source or target
	RowsFiltered int // removed by Options.Team
	Events       int

	Missing              []schema.Field
	OutcomeColumnMissing bool
	TeamColumnMissing    bool
}

// Normalize turns the raw table into validated events. It returns a
// *schema.SchemaError before reading any row when an identifier column is
// absent, and a *model.EmptyInputError when no rows survive.
func Normalize(t *model.Table, s schema.Schema, opts Options) ([]model.Event, Stats, error) {
	if t == nil {
		return nil, Stats{}, &model.EmptyInputError{Stage: "normalize"}
	}
	b, err := s.Bind(t.Columns)
	if err != nil {
		return nil, Stats{}, err
	}

	st := Stats{
		RowsRead:             t.Len(),
		Missing:              b.Missing(),
		OutcomeColumnMissing: !b.Has(schema.FieldOutcome),
		TeamColumnMissing:    !b.Has(schema.FieldTeam),
	}

	cell := func(r int, f schema.Field) any {
		i := b.Index(f)
		if i < 0 {
			return nil
		}
		return t.Cell(r, i)
	}

	events := make([]model.Event, 0, t.Len())
	for r := 0; r < t.Len(); r++ {
		team := cell(r, schema.FieldTeam)
		if opts.Team != "" && b.Has(schema.FieldTeam) {
			if IsNull(team) || text(team) != opts.Team {
				st.RowsFiltered++
				continue
			}
		}

		src, dst := cell(r, schema.FieldSource), cell(r, schema.FieldTarget)
		if IsNull(src) || IsNull(dst) {
			st.RowsDropped++
			continue
		}

		e := model.Event{
			Source:      text(src),
			Target:      text(dst),
			Cross:       ToBool(cell(r, schema.FieldCross)),
			Switch:      ToBool(cell(r, schema.FieldSwitch)),
			ThroughBall: ToBool(cell(r, schema.FieldThroughBall)),
			ShotAssist:  ToBool(cell(r, schema.FieldShotAssist)),
			GoalAssist:  ToBool(cell(r, schema.FieldGoalAssist)),
		}
		if !IsNull(team) {
			e.Team = text(team)
		}
		if pt := cell(r, schema.FieldPassType); !IsNull(pt) {
			e.PassType, e.HasPassType = text(pt), true
		}
		if oc := cell(r, schema.FieldOutcome); !IsNull(oc) {
			e.Outcome, e.HasOutcome = text(oc), true
		}
		Derive(&e)
		events = append(events, e)
	}

	st.Events = len(events)
	if len(events) == 0 {
		return nil, st, &model.EmptyInputError{Stage: "normalize"}
	}
	return events, st, nil
}

// Derive sets the recovery/interception marker and the completed/failed
// flags from PassType and HasOutcome. Recovery and interception events are
// never a pass attempt, so both flags stay false for them.
func Derive(e *model.Event) {
	e.IsRecoveryOrInterception = e.HasPassType &&
		(e.PassType == model.PassTypeRecovery || e.PassType == model.PassTypeInterception)
	e.Completed = !e.HasOutcome && !e.IsRecoveryOrInterception
	e.Failed = e.HasOutcome && !e.IsRecoveryOrInterception
}
