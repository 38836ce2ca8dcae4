package model

// SplitRule selects the test methods that belong to one execution bucket.
// Rules are referenced by pointer; the pointer is the rule's identity.
type SplitRule struct {
	Name                 string   `yaml:"name"`
	RequiredCategories   []string `yaml:"required"`
	ProhibitedCategories []string `yaml:"prohibited"`
}

// Matches reports whether every required category is present in categories
// and no prohibited category is.
func (r *SplitRule) Matches(categories CategorySet) bool {
	for _, category := range r.RequiredCategories {
		if !categories.Has(category) {
			return false
		}
	}

	for _, category := range r.ProhibitedCategories {
		if categories.Has(category) {
			return false
		}
	}

	return true
}

// AppliedRules is the set of rules that matched at least one test method.
type AppliedRules struct {
	index map[*SplitRule]struct{}
	order []*SplitRule
}

// NewAppliedRules returns an empty set.
func NewAppliedRules() AppliedRules {
	return AppliedRules{index: make(map[*SplitRule]struct{})}
}

// Add inserts rule and reports whether it was not already present.
func (a *AppliedRules) Add(rule *SplitRule) bool {
	if a.index == nil {
		a.index = make(map[*SplitRule]struct{})
	}

	if _, ok := a.index[rule]; ok {
		return false
	}

	a.index[rule] = struct{}{}
	a.order = append(a.order, rule)

	return true
}

// Has reports whether rule is a member.
func (a AppliedRules) Has(rule *SplitRule) bool {
	_, ok := a.index[rule]
	return ok
}

// Len returns the number of applied rules.
func (a AppliedRules) Len() int {
	return len(a.order)
}

// Rules returns the applied rules in the order they were first matched.
func (a AppliedRules) Rules() []*SplitRule {
	rules := make([]*SplitRule, len(a.order))
	copy(rules, a.order)

	return rules
}

// Names returns the applied rule names in the order they were first matched.
func (a AppliedRules) Names() []string {
	names := make([]string, 0, len(a.order))
	for _, rule := range a.order {
		names = append(names, rule.Name)
	}

	return names
}
