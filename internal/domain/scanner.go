package domain

import (
	"fmt"
	"log/slog"
	"time"

	"testsplit.dev/pkg/testsplit/internal/adapter"
	m "testsplit.dev/pkg/testsplit/internal/model"
)

// Scanner determines which split rules apply to a test module.
type Scanner interface {
	// Scan returns the rules matched by at least one test method of the module.
	Scan(provider adapter.MetadataProvider, rules []*m.SplitRule) (m.AppliedRules, error)

	// ScanModule is Scan plus the fixture and test method counters of the module.
	ScanModule(provider adapter.MetadataProvider, rules []*m.SplitRule) (m.ScanResult, error)
}

type scanner struct {
	loader FixtureLoader
}

// NewScanner constructs a Scanner that builds fixtures with loader.
func NewScanner(loader FixtureLoader) Scanner {
	return &scanner{loader: loader}
}

func (s *scanner) Scan(provider adapter.MetadataProvider, rules []*m.SplitRule) (m.AppliedRules, error) {
	result, err := s.ScanModule(provider, rules)
	if err != nil {
		return m.AppliedRules{}, err
	}

	return result.Applied, nil
}

func (s *scanner) ScanModule(provider adapter.MetadataProvider, rules []*m.SplitRule) (m.ScanResult, error) {
	started := time.Now()
	module := provider.Module()

	done := stopwatch(module, "module categories")

	moduleCategories, err := s.moduleCategories(provider)
	if err != nil {
		return m.ScanResult{}, err
	}

	done()

	done = stopwatch(module, "load fixtures")

	fixtures, err := s.loadFixtures(provider)
	if err != nil {
		return m.ScanResult{}, err
	}

	done()

	done = stopwatch(module, "check rules")
	defer done()

	rules = nonNilRules(rules)
	applied := m.NewAppliedRules()
	methods := 0

	for _, fixture := range fixtures {
		inherited := moduleCategories.Clone()
		inherited.Union(fixture.Categories)

		for _, method := range fixture.TestMethods {
			methods++

			own, err := methodCategories(provider, method)
			if err != nil {
				return m.ScanResult{}, err
			}

			categories := inherited.Clone()
			categories.Union(own)

			if applied.Len() == len(rules) {
				continue
			}

			for _, rule := range rules {
				if applied.Has(rule) || !rule.Matches(categories) {
					continue
				}

				applied.Add(rule)
				slog.Debug("split rule applied", "module", module, "rule", rule.Name, "method", method.String())
			}
		}
	}

	return m.ScanResult{
		Module:      module,
		Applied:     applied,
		Fixtures:    len(fixtures),
		TestMethods: methods,
		Duration:    time.Since(started),
	}, nil
}

func (s *scanner) moduleCategories(provider adapter.MetadataProvider) (m.CategorySet, error) {
	annotations, err := provider.ModuleAnnotations()
	if err != nil {
		return m.CategorySet{}, fmt.Errorf("read module annotations: %w", err)
	}

	return categoriesOf(annotations), nil
}

func (s *scanner) loadFixtures(provider adapter.MetadataProvider) ([]*m.TestFixture, error) {
	types, err := provider.ListDeclaredTypes()
	if err != nil {
		return nil, fmt.Errorf("list types: %w", err)
	}

	fixtures := make([]*m.TestFixture, 0, len(types))

	for _, t := range types {
		fixture, err := s.loader.LoadFixture(provider, t)
		if err != nil {
			return nil, err
		}

		if fixture != nil {
			fixtures = append(fixtures, fixture)
		}
	}

	return fixtures, nil
}

func methodCategories(provider adapter.MetadataProvider, method m.MethodHandle) (m.CategorySet, error) {
	annotations, err := provider.MethodAnnotations(method)
	if err != nil {
		return m.CategorySet{}, fmt.Errorf("read annotations of %s: %w", method, err)
	}

	return categoriesOf(annotations), nil
}

func categoriesOf(annotations []m.Annotation) m.CategorySet {
	categories := m.NewCategorySet()

	for _, ann := range annotations {
		if ann.Kind == m.AnnotationCategory {
			categories.Add(ann.Value)
		}
	}

	return categories
}

// nonNilRules drops nil entries so callers outside the rule store cannot
// make the scan dereference a missing rule.
func nonNilRules(rules []*m.SplitRule) []*m.SplitRule {
	kept := make([]*m.SplitRule, 0, len(rules))

	for _, rule := range rules {
		if rule != nil {
			kept = append(kept, rule)
		}
	}

	return kept
}

func stopwatch(module m.Path, phase string) func() {
	started := time.Now()

	return func() {
		slog.Debug("scan phase finished", "module", module, "phase", phase, "elapsed", time.Since(started))
	}
}
