package normalize

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/pable/go-pass-network/internal/model"
)

var passTypes = []interface{}{
	"", "Recovery", "Interception", "Throw-in", "Goal Kick", "Free Kick", "Corner", "Kick Off",
}

// TestNormalizeInvariants checks the derived-flag invariants over generated events.
func TestNormalizeInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("coercing a bool returns it unchanged", prop.ForAll(
		func(b bool) bool {
			return ToBool(b) == b && ToBool(ToBool(b)) == b
		},
		gen.Bool(),
	))

	properties.Property("completed and failed are never both true", prop.ForAll(
		func(passType string, hasOutcome bool) bool {
			e := model.Event{PassType: passType, HasPassType: passType != "", HasOutcome: hasOutcome}
			Derive(&e)
			return !(e.Completed && e.Failed)
		},
		gen.OneConstOf(passTypes...),
		gen.Bool(),
	))

	properties.Property("recovery and interception never count as a pass attempt", prop.ForAll(
		func(passType string, hasOutcome bool, outcome string) bool {
			e := model.Event{PassType: passType, HasPassType: true, HasOutcome: hasOutcome, Outcome: outcome}
			Derive(&e)
			return e.IsRecoveryOrInterception && !e.Completed && !e.Failed
		},
		gen.OneConstOf("Recovery", "Interception"),
		gen.Bool(),
		gen.AlphaString(),
	))

	properties.Property("non-recovery events are exactly one of completed or failed", prop.ForAll(
		func(passType string, hasOutcome bool) bool {
			e := model.Event{PassType: passType, HasPassType: passType != "", HasOutcome: hasOutcome}
			Derive(&e)
			if e.IsRecoveryOrInterception {
				return true
			}
			return e.Completed != e.Failed && e.Failed == hasOutcome
		},
		gen.OneConstOf(passTypes...),
		gen.Bool(),
	))

	properties.Property("numbers are true iff nonzero", prop.ForAll(
		func(n int) bool {
			return ToBool(n) == (n != 0) && ToBool(float64(n)) == (n != 0)
		},
		gen.IntRange(-5, 5),
	))

	properties.TestingRun(t)
}
