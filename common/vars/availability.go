package vars

import (
	"museum-ticket/model"
	"sync/atomic"
)

// rulesPtr holds the latest committed rule snapshot.
// Reads are lock-free, writers race through compare-and-swap.
var rulesPtr atomic.Pointer[model.RuleSnapshot]

// GetRules returns the current snapshot, or an empty one before the first load.
func GetRules() model.RuleSnapshot {
	ptr := rulesPtr.Load()
	if ptr == nil {
		return model.RuleSnapshot{Rules: map[string]model.BlockingRule{}}
	}
	return *ptr
}

// GetRule looks up the rule for a date in the current snapshot.
func GetRule(date string) (model.BlockingRule, bool) {
	rule, ok := GetRules().Rules[date]
	return rule, ok
}

// SetRules installs snapshot unless a newer revision is already visible, so a
// slow refresh can never roll the view back. It reports whether it was stored.
func SetRules(snapshot model.RuleSnapshot) bool {
	rules := make(map[string]model.BlockingRule, len(snapshot.Rules))
	for date, rule := range snapshot.Rules {
		rules[date] = rule
	}
	next := &model.RuleSnapshot{Revision: snapshot.Revision, Rules: rules}

	for {
		current := rulesPtr.Load()
		if current != nil && current.Revision > next.Revision {
			return false
		}
		if rulesPtr.CompareAndSwap(current, next) {
			return true
		}
	}
}

// ResetRules clears the snapshot.
func ResetRules() {
	rulesPtr.Store(nil)
}
