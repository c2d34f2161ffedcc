// Package classifier assigns each normalized event exactly one pass category.
package classifier

import "github.com/pable/go-pass-network/internal/model"

// rule pairs a category with the predicate that selects it.
type rule struct {
	category model.Category
	match    func(model.Event) bool
}

// rules are evaluated in order and the first match wins. The categories
// overlap (a cross can also be an assist), so the order is the priority.
var rules = []rule{
	{model.CategoryAssist, model.Event.IsAssist},
	{model.CategoryCross, func(e model.Event) bool { return e.Cross }},
	{model.CategoryThroughBall, func(e model.Event) bool { return e.ThroughBall }},
	{model.CategorySwitchOfPlay, func(e model.Event) bool { return e.Switch }},
	{model.CategoryThrowIn, passType(model.PassTypeThrowIn)},
	{model.CategoryGoalKick, passType(model.PassTypeGoalKick)},
	{model.CategoryFreeKick, passType(model.PassTypeFreeKick)},
}

func passType(want string) func(model.Event) bool {
	return func(e model.Event) bool {
		return e.HasPassType && e.PassType == want
	}
}

// Classify returns the category of e. It reads only the pass type and the
// boolean flags; recovery/interception events are classified like any other.
func Classify(e model.Event) model.Category {
	for _, r := range rules {
		if r.match(e) {
			return r.category
		}
	}
	return model.CategoryRegularPass
}

// ClassifyAll returns a copy of events with Category set on each.
func ClassifyAll(events []model.Event) []model.Event {
	out := make([]model.Event, len(events))
	for i, e := range events {
		e.Category = Classify(e)
		out[i] = e
	}
	return out
}
