package model

import (
	"sort"

	"golang.org/x/text/cases"
)

// CategorySet is a set of category names compared case-insensitively.
// The first spelling added for a name is kept for display.
type CategorySet struct {
	names map[string]string
}

// NewCategorySet builds a set from the given names.
func NewCategorySet(names ...string) CategorySet {
	set := CategorySet{names: make(map[string]string, len(names))}
	set.AddAll(names...)

	return set
}

func foldCategory(name string) string {
	return cases.Fold().String(name)
}

// Add inserts a name and reports whether it was not already present.
func (s *CategorySet) Add(name string) bool {
	if s.names == nil {
		s.names = make(map[string]string)
	}

	key := foldCategory(name)
	if _, ok := s.names[key]; ok {
		return false
	}

	s.names[key] = name

	return true
}

// AddAll inserts every name.
func (s *CategorySet) AddAll(names ...string) {
	for _, name := range names {
		s.Add(name)
	}
}

// Union inserts every member of other.
func (s *CategorySet) Union(other CategorySet) {
	for key, name := range other.names {
		if s.names == nil {
			s.names = make(map[string]string, len(other.names))
		}

		if _, ok := s.names[key]; !ok {
			s.names[key] = name
		}
	}
}

// Has reports whether name is a member, ignoring case.
func (s CategorySet) Has(name string) bool {
	_, ok := s.names[foldCategory(name)]
	return ok
}

// Len returns the number of members.
func (s CategorySet) Len() int {
	return len(s.names)
}

// Values returns the members sorted by their folded form.
func (s CategorySet) Values() []string {
	keys := make([]string, 0, len(s.names))
	for key := range s.names {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	values := make([]string, 0, len(keys))
	for _, key := range keys {
		values = append(values, s.names[key])
	}

	return values
}

// Clone returns an independent copy.
func (s CategorySet) Clone() CategorySet {
	clone := CategorySet{names: make(map[string]string, len(s.names))}
	for key, name := range s.names {
		clone.names[key] = name
	}

	return clone
}
