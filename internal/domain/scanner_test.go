package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testsplit.dev/pkg/testsplit/internal/adapter"
	adaptermocks "testsplit.dev/pkg/testsplit/internal/adapter/mocks"
	m "testsplit.dev/pkg/testsplit/internal/model"
)

func fixtureType(name, fixtureCategories string, methods ...adapter.MethodDescriptor) adapter.TypeDescriptor {
	return adapter.TypeDescriptor{
		Name:        name,
		Annotations: []adapter.AnnotationDescriptor{{Kind: "fixture", Value: fixtureCategories}},
		Methods:     methods,
	}
}

func testMethod(name string, categories ...string) adapter.MethodDescriptor {
	return adapter.MethodDescriptor{
		Name:        name,
		Categories:  categories,
		Annotations: []adapter.AnnotationDescriptor{{Kind: "test"}},
	}
}

func newIndex(t *testing.T, desc adapter.ModuleDescriptor) *adapter.ModuleIndex {
	t.Helper()

	index, err := adapter.NewModuleIndex("module.yaml", desc)
	require.NoError(t, err)

	return index
}

func scan(t *testing.T, desc adapter.ModuleDescriptor, rules ...*m.SplitRule) m.AppliedRules {
	t.Helper()

	applied, err := NewScanner(NewFixtureLoader()).Scan(newIndex(t, desc), rules)
	require.NoError(t, err)

	return applied
}

func TestScanner_SingleFastMethod(t *testing.T) {
	desc := adapter.ModuleDescriptor{Types: []adapter.TypeDescriptor{
		fixtureType("Suite", "", testMethod("Run", "Fast")),
	}}

	t.Run("required category present", func(t *testing.T) {
		rule := &m.SplitRule{Name: "fast", RequiredCategories: []string{"Fast"}}

		applied := scan(t, desc, rule)
		assert.Equal(t, []*m.SplitRule{rule}, applied.Rules())
	})

	t.Run("required and prohibited overlap never matches", func(t *testing.T) {
		rule := &m.SplitRule{Name: "never", RequiredCategories: []string{"Fast"}, ProhibitedCategories: []string{"Fast"}}

		applied := scan(t, desc, rule)
		assert.Equal(t, 0, applied.Len())
	})
}

func TestScanner_EmptyRuleMatchesAnyTestMethod(t *testing.T) {
	tests := []struct {
		name string
		desc adapter.ModuleDescriptor
	}{
		{"no categories", adapter.ModuleDescriptor{Types: []adapter.TypeDescriptor{fixtureType("S", "", testMethod("A"))}}},
		{"with categories", adapter.ModuleDescriptor{
			Categories: []string{"Nightly"},
			Types:      []adapter.TypeDescriptor{fixtureType("S", "Db", testMethod("A", "Slow"))},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := &m.SplitRule{Name: "all"}

			applied := scan(t, tt.desc, rule)
			assert.True(t, applied.Has(rule))
		})
	}
}

func TestScanner_EmptyRuleNeedsATestMethod(t *testing.T) {
	desc := adapter.ModuleDescriptor{Types: []adapter.TypeDescriptor{
		fixtureType("Empty", "Fast"),
		{Name: "Plain", Methods: []adapter.MethodDescriptor{testMethod("NotInFixture")}},
	}}

	applied := scan(t, desc, &m.SplitRule{Name: "all"})
	assert.Equal(t, 0, applied.Len())
}

func TestScanner_RulesMatchedByDifferentMethods(t *testing.T) {
	ruleA := &m.SplitRule{Name: "a", RequiredCategories: []string{"A"}}
	ruleB := &m.SplitRule{Name: "b", RequiredCategories: []string{"B"}}

	desc := adapter.ModuleDescriptor{Types: []adapter.TypeDescriptor{
		fixtureType("Suite", "", testMethod("First", "A"), testMethod("Second", "B")),
	}}

	applied := scan(t, desc, ruleA, ruleB)
	assert.True(t, applied.Has(ruleA))
	assert.True(t, applied.Has(ruleB))
	assert.Equal(t, 2, applied.Len())
}

func TestScanner_NonFixtureTypeIsSkipped(t *testing.T) {
	rule := &m.SplitRule{Name: "slow", RequiredCategories: []string{"Slow"}}

	desc := adapter.ModuleDescriptor{Types: []adapter.TypeDescriptor{
		{
			Name:       "Helpers",
			Categories: []string{"Slow"},
			Methods:    []adapter.MethodDescriptor{testMethod("LooksLikeATest", "Slow")},
		},
		fixtureType("Suite", "", testMethod("Run", "Fast")),
	}}

	result, err := NewScanner(NewFixtureLoader()).ScanModule(newIndex(t, desc), []*m.SplitRule{rule})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Applied.Len())
	assert.Equal(t, 1, result.Fixtures)
	assert.Equal(t, 1, result.TestMethods)
	assert.Equal(t, m.Path("module.yaml"), result.Module)
}

func TestScanner_EffectiveCategoriesCombineAllLevels(t *testing.T) {
	rule := &m.SplitRule{Name: "combo", RequiredCategories: []string{"Nightly", "Db", "Billing", "Slow"}}

	desc := adapter.ModuleDescriptor{
		Categories: []string{"Nightly"},
		Types: []adapter.TypeDescriptor{{
			Name:        "Suite",
			Categories:  []string{"Billing"},
			Annotations: []adapter.AnnotationDescriptor{{Kind: "fixture", Value: "Db"}},
			Methods:     []adapter.MethodDescriptor{testMethod("Run", "Slow")},
		}},
	}

	assert.True(t, scan(t, desc, rule).Has(rule))
}

func TestScanner_ProhibitedAtAnyLevelBlocks(t *testing.T) {
	rule := &m.SplitRule{Name: "no-db", ProhibitedCategories: []string{"db"}}

	tests := []struct {
		name string
		desc adapter.ModuleDescriptor
	}{
		{"assembly level", adapter.ModuleDescriptor{
			Categories: []string{"Db"},
			Types:      []adapter.TypeDescriptor{fixtureType("S", "", testMethod("A"))},
		}},
		{"fixture level", adapter.ModuleDescriptor{
			Types: []adapter.TypeDescriptor{fixtureType("S", "DB", testMethod("A"))},
		}},
		{"method level", adapter.ModuleDescriptor{
			Types: []adapter.TypeDescriptor{fixtureType("S", "", testMethod("A", "dB"))},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 0, scan(t, tt.desc, rule).Len())
		})
	}
}

func TestScanner_CaseInsensitiveAtEveryLevel(t *testing.T) {
	rule := &m.SplitRule{Name: "slow", RequiredCategories: []string{"slow"}}

	tests := []struct {
		name string
		desc adapter.ModuleDescriptor
	}{
		{"method level", adapter.ModuleDescriptor{
			Types: []adapter.TypeDescriptor{fixtureType("S", "", testMethod("A", "Slow"))},
		}},
		{"fixture level", adapter.ModuleDescriptor{
			Types: []adapter.TypeDescriptor{fixtureType("S", "SLOW", testMethod("A"))},
		}},
		{"assembly level", adapter.ModuleDescriptor{
			Categories: []string{"Slow"},
			Types:      []adapter.TypeDescriptor{fixtureType("S", "", testMethod("A"))},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, scan(t, tt.desc, rule).Has(rule))
		})
	}
}

func TestScanner_TestCaseMarkerAndInheritedFixture(t *testing.T) {
	rule := &m.SplitRule{Name: "db", RequiredCategories: []string{"Db", "Param"}}

	desc := adapter.ModuleDescriptor{Types: []adapter.TypeDescriptor{
		{
			Name:  "Derived",
			Bases: []string{"DbFixture"},
			Methods: []adapter.MethodDescriptor{{
				Name:        "Parameterized",
				Categories:  []string{"Param"},
				Annotations: []adapter.AnnotationDescriptor{{Kind: "testcase"}},
			}},
		},
		fixtureType("DbFixture", "Db"),
	}}

	assert.True(t, scan(t, desc, rule).Has(rule))
}

func TestScanner_OverridingMethodKeepsBaseMarkers(t *testing.T) {
	rule := &m.SplitRule{Name: "slow", RequiredCategories: []string{"Slow"}}

	desc := adapter.ModuleDescriptor{Types: []adapter.TypeDescriptor{
		{Name: "Base", Methods: []adapter.MethodDescriptor{testMethod("Run", "Slow")}},
		{
			Name:        "Derived",
			Bases:       []string{"Base"},
			Annotations: []adapter.AnnotationDescriptor{{Kind: "fixture"}},
			Methods:     []adapter.MethodDescriptor{{Name: "Run"}},
		},
	}}

	index := newIndex(t, desc)

	fixture, err := NewFixtureLoader().LoadFixture(index, "Derived")
	require.NoError(t, err)
	require.NotNil(t, fixture)
	assert.Equal(t, []m.MethodHandle{{Type: "Derived", Name: "Run"}}, fixture.TestMethods)

	result, err := NewScanner(NewFixtureLoader()).ScanModule(index, []*m.SplitRule{rule})
	require.NoError(t, err)
	assert.Equal(t, 1, result.TestMethods)
	assert.True(t, result.Applied.Has(rule))
}

func TestScanner_IgnoresNilRules(t *testing.T) {
	rule := &m.SplitRule{Name: "fast", RequiredCategories: []string{"Fast"}}

	desc := adapter.ModuleDescriptor{Types: []adapter.TypeDescriptor{
		fixtureType("Suite", "", testMethod("Run", "Fast")),
	}}

	var applied m.AppliedRules

	require.NotPanics(t, func() {
		applied = scan(t, desc, nil, rule, nil)
	})
	assert.Equal(t, []*m.SplitRule{rule}, applied.Rules())
}

func TestScanner_EveryRuleAtMostOnceAndIdempotent(t *testing.T) {
	fast := &m.SplitRule{Name: "fast", RequiredCategories: []string{"Fast"}}
	slow := &m.SplitRule{Name: "slow", RequiredCategories: []string{"Slow"}}
	none := &m.SplitRule{Name: "none", RequiredCategories: []string{"Missing"}}
	rules := []*m.SplitRule{fast, slow, none}

	desc := adapter.ModuleDescriptor{Types: []adapter.TypeDescriptor{
		fixtureType("One", "", testMethod("A", "Fast"), testMethod("B", "Fast"), testMethod("C", "Slow")),
		fixtureType("Two", "Fast", testMethod("D"), testMethod("E", "Slow")),
	}}

	index := newIndex(t, desc)
	scanner := NewScanner(NewFixtureLoader())

	first, err := scanner.Scan(index, rules)
	require.NoError(t, err)

	second, err := scanner.Scan(index, rules)
	require.NoError(t, err)

	assert.Equal(t, 2, first.Len())
	assert.ElementsMatch(t, first.Rules(), second.Rules())
	assert.ElementsMatch(t, []*m.SplitRule{fast, slow}, first.Rules())
}

func TestScanner_VisitsEveryMethodAfterAllRulesApplied(t *testing.T) {
	rule := &m.SplitRule{Name: "all"}
	readErr := errors.New("corrupt method table")

	provider := adaptermocks.NewMockMetadataProvider(t)
	provider.On("Module").Return(m.Path("broken.yaml"))
	provider.On("ModuleAnnotations").Return(nil, nil)
	provider.On("ListDeclaredTypes").Return([]m.TypeHandle{"Suite"}, nil)
	provider.On("TypeAnnotations", m.TypeHandle("Suite")).Return([]m.Annotation{{Kind: m.AnnotationFixture}}, nil)

	first := m.MethodHandle{Type: "Suite", Name: "First"}
	second := m.MethodHandle{Type: "Suite", Name: "Second"}
	provider.On("ListMethods", m.TypeHandle("Suite")).Return([]m.MethodHandle{first, second}, nil)
	provider.On("MethodAnnotations", first).Return([]m.Annotation{{Kind: m.AnnotationTest}}, nil)
	provider.On("MethodAnnotations", second).Return([]m.Annotation{{Kind: m.AnnotationTest}}, nil).Once()
	provider.On("MethodAnnotations", second).Return(nil, readErr).Once()

	_, err := NewScanner(NewFixtureLoader()).Scan(provider, []*m.SplitRule{rule})
	require.Error(t, err)
	assert.ErrorIs(t, err, readErr)
}

func TestScanner_PropagatesMetadataErrors(t *testing.T) {
	readErr := errors.New("unreadable module")

	tests := []struct {
		name  string
		setup func(p *adaptermocks.MockMetadataProvider)
	}{
		{"module annotations", func(p *adaptermocks.MockMetadataProvider) {
			p.On("ModuleAnnotations").Return(nil, readErr)
		}},
		{"list types", func(p *adaptermocks.MockMetadataProvider) {
			p.On("ModuleAnnotations").Return(nil, nil)
			p.On("ListDeclaredTypes").Return(nil, readErr)
		}},
		{"type annotations", func(p *adaptermocks.MockMetadataProvider) {
			p.On("ModuleAnnotations").Return(nil, nil)
			p.On("ListDeclaredTypes").Return([]m.TypeHandle{"T"}, nil)
			p.On("TypeAnnotations", m.TypeHandle("T")).Return(nil, readErr)
		}},
		{"list methods", func(p *adaptermocks.MockMetadataProvider) {
			p.On("ModuleAnnotations").Return(nil, nil)
			p.On("ListDeclaredTypes").Return([]m.TypeHandle{"T"}, nil)
			p.On("TypeAnnotations", m.TypeHandle("T")).Return([]m.Annotation{{Kind: m.AnnotationFixture}}, nil)
			p.On("ListMethods", m.TypeHandle("T")).Return(nil, readErr)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := adaptermocks.NewMockMetadataProvider(t)
			provider.On("Module").Return(m.Path("broken.yaml"))
			tt.setup(provider)

			_, err := NewScanner(NewFixtureLoader()).Scan(provider, []*m.SplitRule{{Name: "r"}})
			assert.ErrorIs(t, err, readErr)
		})
	}
}
